package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/constants"
)

// RequireSwaggerAuth gatekeeps the API reference route with HTTP Basic
// credentials compared against the configured expected values. Anything
// short of an exact match gets the same 401 challenge.
func RequireSwaggerAuth(expectedUser, expectedPass string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Basic ") {
			challenge(c)
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			challenge(c)
			return
		}

		// Split on the first colon only; passwords may contain colons.
		parts := strings.SplitN(string(decoded), ":", 2)
		if len(parts) != 2 {
			challenge(c)
			return
		}
		username, password := parts[0], parts[1]

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(expectedUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(expectedPass)) == 1
		if !userOK || !passOK {
			challenge(c)
			return
		}

		c.Next()
	}
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="`+constants.SwaggerRealm+`"`)
	c.String(http.StatusUnauthorized, "Unauthorized")
	c.Abort()
}

package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func swaggerTestRouter(user, pass string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/auth/reference", RequireSwaggerAuth(user, pass), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func basicAuth(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func TestRequireSwaggerAuth_ChallengesWithoutHeader(t *testing.T) {
	r := swaggerTestRouter("admin", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reference", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `Basic realm="Swagger Docs"`, w.Header().Get("WWW-Authenticate"))
}

func TestRequireSwaggerAuth_RejectsWrongCredentials(t *testing.T) {
	r := swaggerTestRouter("admin", "secret")

	for _, credentials := range []string{"admin:wrong", "other:secret", "admin", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/reference", nil)
		req.Header.Set("Authorization", basicAuth(credentials))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code, "credentials %q", credentials)
	}
}

func TestRequireSwaggerAuth_RejectsMalformedHeader(t *testing.T) {
	r := swaggerTestRouter("admin", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reference", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSwaggerAuth_AcceptsMatchingCredentials(t *testing.T) {
	r := swaggerTestRouter("admin", "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reference", nil)
	req.Header.Set("Authorization", basicAuth("admin:secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSwaggerAuth_SplitsOnFirstColonOnly(t *testing.T) {
	r := swaggerTestRouter("admin", "p@ss:word")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reference", nil)
	req.Header.Set("Authorization", basicAuth("admin:p@ss:word"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

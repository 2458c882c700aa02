package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// flowStateTTL bounds how long a sign-in redirect may stay outstanding.
const flowStateTTL = 10 * time.Minute

var ErrInvalidState = errors.New("invalid oauth state token")

// FlowState is carried through the provider round-trip as a signed token in
// the OAuth state parameter. The nonce is mirrored in a flow cookie so a
// callback can only complete the flow it started.
type FlowState struct {
	Provider           string `json:"provider"`
	Nonce              string `json:"nonce"`
	CallbackURL        string `json:"callback_url"`
	ErrorCallbackURL   string `json:"error_callback_url"`
	NewUserCallbackURL string `json:"new_user_callback_url"`
}

type flowClaims struct {
	jwt.StandardClaims
	FlowState
}

// StateCodec signs and verifies flow state tokens.
type StateCodec struct {
	secret []byte
}

func NewStateCodec(secret string) *StateCodec {
	return &StateCodec{secret: []byte(secret)}
}

// Encode signs the flow state with a bounded expiry.
func (c *StateCodec) Encode(state FlowState, now time.Time) (string, error) {
	claims := flowClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(flowStateTTL).Unix(),
		},
		FlowState: state,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the embedded state.
func (c *StateCodec) Decode(raw string) (*FlowState, error) {
	claims := &flowClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidState
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidState
	}
	return &claims.FlowState, nil
}

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/config"
	"github.com/leocodeio/gitsprint-api/internal/constants"
	"github.com/leocodeio/gitsprint-api/internal/dto"
	"github.com/leocodeio/gitsprint-api/internal/middleware"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

const webhookTestSecret = "whsec_dGVzdC1zZWNyZXQ="

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	polarHTTP   *recordingHTTPClient
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Subscription{},
		&models.Order{},
		&models.WebhookEvent{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	cfg := &config.Config{
		AppBaseURL:       "http://localhost:3000",
		APIBaseURL:       "http://localhost:8080",
		AuthSecret:       "test-secret",
		SessionExpiresIn: 60 * 60 * 8,
	}

	opts := auth.OptionsFromConfig(cfg)
	opts.Polar.Enabled = true
	opts.Polar.WebhookSecret = webhookTestSecret

	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		opts,
	)
	billingService := services.NewBillingService(repository.NewBillingRepository(db), zap.NewNop())

	polarHTTP := &recordingHTTPClient{}
	polarClient := polar.NewClient("test-token", "sandbox")
	polarClient.SetHTTPClient(polarHTTP)

	handler := NewAuthHandler(
		authService,
		billingService,
		auth.Providers(cfg),
		auth.NewStateCodec(cfg.AuthSecret),
		polarClient,
		cfg,
		zap.NewNop(),
	)

	r := gin.New()
	store := cookie.NewStore([]byte(cfg.AuthSecret))
	r.Use(sessions.Sessions(constants.FlowCookieName, store))
	r.GET("/api/auth/get-session", handler.GetSession)
	r.POST("/api/auth/sign-out", handler.SignOut)
	r.POST("/api/auth/complete-profile", middleware.RequireAuth(authService), handler.CompleteProfile)
	r.GET("/api/auth/checkout/:slug", handler.Checkout)
	r.POST("/api/auth/polar/webhooks", handler.Webhooks)

	return authTestEnv{db: db, router: r, authService: authService, polarHTTP: polarHTTP}
}

func (env authTestEnv) createSession(t *testing.T) (*models.User, *models.Session) {
	t.Helper()
	user, _, err := env.authService.SignInWithProfile(&auth.Profile{
		Provider:      auth.ProviderGithub,
		ProviderID:    "42",
		Name:          "Octo Cat",
		Email:         "octo@example.com",
		EmailVerified: true,
	})
	require.NoError(t, err)

	session, err := env.authService.CreateSession(user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	return user, session
}

func TestAuthHandler_GetSessionWithCookie(t *testing.T) {
	env := setupAuthTestEnv(t)
	user, session := env.createSession(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/get-session", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: session.Token})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, session.ID, response.Session.ID)
	require.Equal(t, user.ID, response.User.ID)
	require.Equal(t, user.Email, response.User.Email)
}

func TestAuthHandler_GetSessionWithBearerToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	user, session := env.createSession(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/get-session", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.User.ID)
}

func TestAuthHandler_GetSessionAnonymousReturnsNull(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/get-session", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestAuthHandler_SignOut(t *testing.T) {
	env := setupAuthTestEnv(t)
	_, session := env.createSession(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// The session no longer resolves.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/get-session", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestAuthHandler_SignOutWithoutSession(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_CompleteProfile(t *testing.T) {
	env := setupAuthTestEnv(t)
	user, session := env.createSession(t)
	require.False(t, user.ProfileCompleted)

	body := strings.NewReader(`{"name":"Octo C.","phone":"+1555000111"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/complete-profile", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
	require.Equal(t, user.Email, response.Email)
	require.Equal(t, "Octo C.", response.Name)
	require.True(t, response.ProfileCompleted)
}

func TestAuthHandler_CheckoutSuccessURLPointsAtAPI(t *testing.T) {
	env := setupAuthTestEnv(t)
	_, session := env.createSession(t)
	env.polarHTTP.body = `{"id":"chk-1","url":"https://sandbox.polar.sh/checkout/chk-1"}`

	req := httptest.NewRequest(http.MethodGet, "/api/auth/checkout/benificial", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://sandbox.polar.sh/checkout/chk-1", w.Header().Get("Location"))

	// The landing route lives on the API origin, not the frontend.
	require.Len(t, env.polarHTTP.requests, 1)
	sent, err := io.ReadAll(env.polarHTTP.requests[0].Body)
	require.NoError(t, err)
	require.Contains(t, string(sent), "http://localhost:8080/api/payments/success")
}

func TestAuthHandler_WebhooksRejectsUnsignedDelivery(t *testing.T) {
	env := setupAuthTestEnv(t)

	body := strings.NewReader(`{"type":"order.paid","data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/polar/webhooks", body)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_WebhooksAcceptsSignedDelivery(t *testing.T) {
	env := setupAuthTestEnv(t)
	user, _ := env.createSession(t)

	payload := fmt.Sprintf(
		`{"type":"subscription.canceled","data":{"id":"sub-1","product_id":"prod-1","external_customer_id":%q}}`,
		user.ID,
	)
	ts := fmt.Sprintf("%d", time.Now().Unix())
	sig, err := polar.Sign("evt-1", ts, []byte(payload), webhookTestSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/polar/webhooks", strings.NewReader(payload))
	req.Header.Set("webhook-id", "evt-1")
	req.Header.Set("webhook-timestamp", ts)
	req.Header.Set("webhook-signature", "v1,"+sig)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var sub models.Subscription
	require.NoError(t, env.db.First(&sub, "id = ?", "sub-1").Error)
	require.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
}

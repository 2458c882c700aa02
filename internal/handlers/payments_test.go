package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/config"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

type recordingHTTPClient struct {
	requests []*http.Request

	// body is the canned response, `{}` when unset.
	body string
}

func (r *recordingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	r.requests = append(r.requests, req)
	body := r.body
	if body == "" {
		body = `{}`
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}, nil
}

func setupPaymentsTestEnv(t *testing.T) (*gin.Engine, *services.AuthService, *recordingHTTPClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	cfg := &config.Config{
		AppBaseURL:       "http://localhost:3000",
		APIBaseURL:       "http://localhost:8080",
		SessionExpiresIn: 60 * 60 * 8,
	}
	opts := auth.OptionsFromConfig(cfg)
	opts.Polar.Enabled = true

	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		opts,
	)

	fake := &recordingHTTPClient{}
	polarClient := polar.NewClient("test-token", "sandbox")
	polarClient.SetHTTPClient(fake)

	r := gin.New()
	handler := NewPaymentsHandler(authService, polarClient, zap.NewNop())
	r.GET("/api/payments/success", handler.Success)
	return r, authService, fake
}

func TestPaymentsHandler_SuccessRequiresCheckoutID(t *testing.T) {
	r, _, _ := setupPaymentsTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/success", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentsHandler_SuccessReportsUsageForSignedInUser(t *testing.T) {
	r, authService, fake := setupPaymentsTestEnv(t)

	user, _, err := authService.SignInWithProfile(&auth.Profile{
		Provider:      auth.ProviderGithub,
		ProviderID:    "42",
		Name:          "Octo Cat",
		Email:         "octo@example.com",
		EmailVerified: true,
	})
	require.NoError(t, err)
	session, err := authService.CreateSession(user.ID, "", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/success?checkout_id=chk-1", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "chk-1")

	require.Len(t, fake.requests, 1)
	require.Contains(t, fake.requests[0].URL.Path, "/v1/events/ingest")
}

func TestPaymentsHandler_SuccessAnonymousSkipsUsage(t *testing.T) {
	r, _, fake := setupPaymentsTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/success?checkout_id=chk-2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, fake.requests)
}

package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/config"
	"github.com/leocodeio/gitsprint-api/internal/constants"
	"github.com/leocodeio/gitsprint-api/internal/dto"
	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/middleware"
	"github.com/leocodeio/gitsprint-api/internal/openapi"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/services"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

const flowNonceKey = "oauth_nonce"

// AuthHandler owns the /api/auth surface: OAuth sign-in and callback,
// session introspection, sign-out, onboarding, the API reference and the
// billing sub-routes. Everything behind it delegates to the configured
// service instances.
type AuthHandler struct {
	authService    *services.AuthService
	billingService *services.BillingService
	providers      map[string]auth.Provider
	state          *auth.StateCodec
	polarClient    *polar.Client
	cfg            *config.Config
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *services.AuthService,
	billingService *services.BillingService,
	providers map[string]auth.Provider,
	state *auth.StateCodec,
	polarClient *polar.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		billingService: billingService,
		providers:      providers,
		state:          state,
		polarClient:    polarClient,
		cfg:            cfg,
		logger:         logger,
	}
}

// SignIn starts the OAuth redirect flow for a provider. The flow state
// (redirect targets and a nonce) travels through the provider round-trip as
// a signed state token; the nonce is mirrored in the flow cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		apierrors.NotFound(c, "Unknown provider")
		return
	}

	nonce, err := newFlowNonce()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	state := auth.FlowState{
		Provider:           provider.Name(),
		Nonce:              nonce,
		CallbackURL:        c.DefaultQuery("callbackURL", constants.DefaultCallbackURL),
		ErrorCallbackURL:   c.DefaultQuery("errorCallbackURL", constants.ErrorCallbackURL),
		NewUserCallbackURL: c.DefaultQuery("newUserCallbackURL", constants.NewUserCallbackURL),
	}

	encoded, err := h.state.Encode(state, time.Now())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(flowNonceKey, nonce)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save flow state")
		return
	}

	c.Redirect(http.StatusFound, provider.Config().AuthCodeURL(encoded))
}

// Callback completes the OAuth flow: state and nonce check, code exchange,
// user upsert, session issuance and redirect. New users land on the
// onboarding target, returning users on the regular callback target.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		apierrors.NotFound(c, "Unknown provider")
		return
	}

	state, err := h.state.Decode(c.Query("state"))
	if err != nil || state.Provider != provider.Name() {
		h.redirectError(c, constants.ErrorCallbackURL, "invalid_state")
		return
	}

	flow := sessions.Default(c)
	nonce, _ := flow.Get(flowNonceKey).(string)
	flow.Delete(flowNonceKey)
	_ = flow.Save()
	if nonce == "" || nonce != state.Nonce {
		h.redirectError(c, state.ErrorCallbackURL, "nonce_mismatch")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, state.ErrorCallbackURL, "missing_code")
		return
	}

	token, err := provider.Config().Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed", zap.String("provider", provider.Name()), zap.Error(err))
		h.redirectError(c, state.ErrorCallbackURL, "exchange_failed")
		return
	}

	profile, err := provider.Profile(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("oauth profile fetch failed", zap.String("provider", provider.Name()), zap.Error(err))
		h.redirectError(c, state.ErrorCallbackURL, "profile_failed")
		return
	}

	user, isNew, err := h.authService.SignInWithProfile(profile)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotVerified) {
			h.redirectError(c, state.ErrorCallbackURL, "email_not_verified")
			return
		}
		h.logger.Error("sign-in upsert failed", zap.Error(err))
		h.redirectError(c, state.ErrorCallbackURL, "signin_failed")
		return
	}

	session, err := h.authService.CreateSession(user.ID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.redirectError(c, state.ErrorCallbackURL, "session_failed")
		return
	}

	h.setSessionCookie(c, session.Token)

	target := state.CallbackURL
	if isNew {
		target = state.NewUserCallbackURL
	}
	c.Redirect(http.StatusFound, h.cfg.AppBaseURL+target)
}

// GetSession resolves the inbound credentials. No valid session answers a
// JSON null rather than an error.
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, err := h.authService.SessionFromRequest(c.Request)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve session")
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(*session, session.User))
}

// SignOut invalidates the current session and clears the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	session, err := h.authService.SessionFromRequest(c.Request)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve session")
		return
	}
	if session == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.SignOut(session.Token); err != nil {
		apierrors.InternalError(c, "Failed to sign out")
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CompleteProfile finishes onboarding for the authenticated user.
func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	type completeProfileRequest struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.CompleteProfile(userID, services.CompleteProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Reference serves the OpenAPI document. The route is mounted behind the
// basic-auth gate.
func (h *AuthHandler) Reference(c *gin.Context) {
	doc := openapi.BuildDocument(h.cfg.APIBaseURL)

	if c.Query("format") == "yaml" {
		data, err := doc.ToYAML()
		if err != nil {
			apierrors.InternalError(c, "")
			return
		}
		c.Data(http.StatusOK, "application/yaml", data)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Checkout opens a hosted checkout session for a catalog product and
// redirects to it. Only authenticated users may start a checkout.
func (h *AuthHandler) Checkout(c *gin.Context) {
	opts := h.authService.Options()
	if !opts.Polar.Enabled {
		apierrors.ServiceUnavailable(c, "Billing is not configured")
		return
	}

	session, err := h.authService.SessionFromRequest(c.Request)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve session")
		return
	}
	if session == nil && opts.Polar.Checkout.AuthenticatedUsersOnly {
		apierrors.Unauthorized(c, "Checkout requires authentication")
		return
	}

	product, ok := opts.ProductBySlug(c.Param("slug"))
	if !ok {
		apierrors.NotFound(c, "Unknown product")
		return
	}

	// The landing route is served by this process, so the success URL is
	// rooted at the API origin, like the provider callback URLs.
	input := polar.CreateCheckoutInput{
		ProductID:  product.ProductID,
		SuccessURL: h.cfg.APIBaseURL + opts.Polar.Checkout.SuccessURL,
	}
	if session != nil {
		input.ExternalCustomerID = session.UserID
	}

	checkout, err := h.polarClient.CreateCheckout(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("checkout creation failed", zap.Error(err))
		apierrors.RespondWithError(c, http.StatusBadGateway,
			apierrors.NewAPIError(apierrors.ErrCodeCheckoutFailed, "Failed to create checkout"))
		return
	}

	c.Redirect(http.StatusFound, checkout.URL)
}

// Portal redirects the authenticated user to the hosted customer portal.
func (h *AuthHandler) Portal(c *gin.Context) {
	opts := h.authService.Options()
	if !opts.Polar.Enabled || !opts.Polar.Portal {
		apierrors.ServiceUnavailable(c, "Billing is not configured")
		return
	}

	session, err := h.authService.SessionFromRequest(c.Request)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve session")
		return
	}
	if session == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	portal, err := h.polarClient.CreateCustomerSession(c.Request.Context(), session.UserID)
	if err != nil {
		h.logger.Error("portal session creation failed", zap.Error(err))
		apierrors.RespondWithError(c, http.StatusBadGateway,
			apierrors.NewAPIError(apierrors.ErrCodeCheckoutFailed, "Failed to open customer portal"))
		return
	}

	c.Redirect(http.StatusFound, portal.CustomerPortalURL)
}

// Webhooks receives payment provider deliveries. The signature is verified
// against the shared secret before any handler runs; verified events of an
// unknown type are acknowledged so the provider stops redelivering them.
func (h *AuthHandler) Webhooks(c *gin.Context) {
	opts := h.authService.Options()
	if !opts.Polar.Enabled {
		apierrors.ServiceUnavailable(c, "Billing is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		apierrors.BadRequest(c, "Failed to read body")
		return
	}

	event, err := polar.VerifySignature(c.Request.Header, payload, opts.Polar.WebhookSecret, time.Now())
	if err != nil {
		h.logger.Warn("webhook rejected", zap.Error(err))
		apierrors.WebhookRejected(c, "")
		return
	}

	if err := h.billingService.HandleEvent(event); err != nil {
		if errors.Is(err, services.ErrUnknownEventType) {
			h.logger.Info("ignoring webhook event", zap.String("type", event.Type))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		h.logger.Error("webhook handling failed",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	opts := h.authService.Options()
	c.SetCookie(
		constants.SessionCookieName,
		token,
		int(opts.SessionExpiresIn/time.Second),
		"/",
		"",
		opts.SecureCookies,
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	opts := h.authService.Options()
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", opts.SecureCookies, true)
}

func (h *AuthHandler) redirectError(c *gin.Context, target, reason string) {
	if target == "" {
		target = constants.ErrorCallbackURL
	}
	c.Redirect(http.StatusFound, h.cfg.AppBaseURL+target+"?error="+reason)
}

func newFlowNonce() (string, error) {
	return utils.GenerateNonce()
}

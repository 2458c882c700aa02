package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

// PaymentsHandler handles post-checkout landing requests
type PaymentsHandler struct {
	authService *services.AuthService
	polarClient *polar.Client
	logger      *zap.Logger
}

// NewPaymentsHandler creates a new PaymentsHandler
func NewPaymentsHandler(authService *services.AuthService, polarClient *polar.Client, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		authService: authService,
		polarClient: polarClient,
		logger:      logger,
	}
}

// Success handles GET /api/payments/success. The checkout provider redirects
// here after payment with the checkout id substituted into the query string.
// Entitlements are granted by the webhook, not this route.
func (h *PaymentsHandler) Success(c *gin.Context) {
	checkoutID := c.Query("checkout_id")
	if checkoutID == "" {
		apierrors.BadRequest(c, "Missing checkout_id")
		return
	}

	session, err := h.authService.SessionFromRequest(c.Request)
	if err != nil {
		apierrors.InternalError(c, "Failed to resolve session")
		return
	}

	fields := []zap.Field{zap.String("checkout_id", checkoutID)}
	if session != nil {
		fields = append(fields, zap.String("user_id", session.UserID))
	}
	h.logger.Info("checkout completed", fields...)

	// Report the completion as a usage event when metered billing is on. The
	// landing page never fails on a reporting hiccup.
	opts := h.authService.Options()
	if session != nil && opts.Polar.Enabled && opts.Polar.Usage {
		err := h.polarClient.IngestUsageEvent(c.Request.Context(), session.UserID, "checkout.completed",
			map[string]interface{}{"checkout_id": checkoutID})
		if err != nil {
			h.logger.Warn("usage event ingestion failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"checkout_id": checkoutID,
	})
}

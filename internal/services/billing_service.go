package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/repository"
)

var ErrUnknownEventType = errors.New("unknown webhook event type")

// BillingService applies verified payment webhook events to persisted
// billing state. Handlers are idempotent: a redelivered event id is a no-op,
// and distinct out-of-order events resolve last-write-wins on the provider
// timestamp. Events for different subscriptions may be handled concurrently;
// each runs in its own transaction.
type BillingService struct {
	repo   repository.BillingRepository
	logger *zap.Logger
}

// NewBillingService creates a new BillingService.
func NewBillingService(repo repository.BillingRepository, logger *zap.Logger) *BillingService {
	return &BillingService{repo: repo, logger: logger}
}

// HandleEvent dispatches a verified event to the matching handler.
func (s *BillingService) HandleEvent(event *polar.Event) error {
	switch event.Type {
	case polar.EventOrderPaid:
		return s.HandleOrderPaid(event)
	case polar.EventSubscriptionCanceled:
		return s.HandleSubscriptionCanceled(event)
	case polar.EventSubscriptionRevoked:
		return s.HandleSubscriptionRevoked(event)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEventType, event.Type)
	}
}

// HandleOrderPaid marks a purchase completed and activates the linked
// subscription.
func (s *BillingService) HandleOrderPaid(event *polar.Event) error {
	var data polar.OrderData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to parse order payload: %w", err)
	}

	return s.repo.Transaction(func(tx repository.BillingRepository) error {
		fresh, err := s.recordEvent(tx, event)
		if err != nil || !fresh {
			return err
		}

		paidAt := event.Timestamp
		order := &models.Order{
			ID:             data.ID,
			UserID:         data.ExternalCustomerID,
			SubscriptionID: data.SubscriptionID,
			CheckoutID:     data.CheckoutID,
			Status:         models.OrderStatusPaid,
			Amount:         data.Amount,
			Currency:       data.Currency,
			PaidAt:         &paidAt,
		}
		if err := tx.SaveOrder(order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		if data.SubscriptionID == nil {
			return nil
		}

		sub, err := s.subscriptionFor(tx, *data.SubscriptionID, data.ExternalCustomerID, data.ProductID)
		if err != nil {
			return err
		}
		if !event.Timestamp.After(sub.LastEventAt) {
			s.logger.Info("skipping stale order event",
				zap.String("event_id", event.ID),
				zap.String("subscription_id", sub.ID))
			return nil
		}
		sub.Status = models.SubscriptionStatusActive
		sub.LastEventAt = event.Timestamp
		if err := tx.SaveSubscription(sub); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		return tx.SetUserSubscription(sub.UserID, &sub.ID)
	})
}

// HandleSubscriptionCanceled marks a user-initiated cancellation. The
// subscription row stays in place for history.
func (s *BillingService) HandleSubscriptionCanceled(event *polar.Event) error {
	return s.applySubscriptionEvent(event, models.SubscriptionStatusCanceled)
}

// HandleSubscriptionRevoked marks a provider-forced termination, distinct
// from a cancellation, and detaches the subscription from the user.
func (s *BillingService) HandleSubscriptionRevoked(event *polar.Event) error {
	return s.applySubscriptionEvent(event, models.SubscriptionStatusRevoked)
}

func (s *BillingService) applySubscriptionEvent(event *polar.Event, status models.SubscriptionStatus) error {
	var data polar.SubscriptionData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to parse subscription payload: %w", err)
	}

	return s.repo.Transaction(func(tx repository.BillingRepository) error {
		fresh, err := s.recordEvent(tx, event)
		if err != nil || !fresh {
			return err
		}

		sub, err := s.subscriptionFor(tx, data.ID, data.ExternalCustomerID, data.ProductID)
		if err != nil {
			return err
		}
		if !event.Timestamp.After(sub.LastEventAt) {
			s.logger.Info("skipping stale subscription event",
				zap.String("event_id", event.ID),
				zap.String("subscription_id", sub.ID),
				zap.String("status", string(status)))
			return nil
		}

		at := event.Timestamp
		sub.Status = status
		sub.LastEventAt = at
		switch status {
		case models.SubscriptionStatusCanceled:
			sub.CanceledAt = &at
		case models.SubscriptionStatusRevoked:
			sub.RevokedAt = &at
		}
		if err := tx.SaveSubscription(sub); err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}

		if status == models.SubscriptionStatusRevoked && sub.UserID != "" {
			return tx.SetUserSubscription(sub.UserID, nil)
		}
		return nil
	})
}

// recordEvent registers the event id; a previously seen id reports fresh=false.
func (s *BillingService) recordEvent(tx repository.BillingRepository, event *polar.Event) (bool, error) {
	_, err := tx.FindEvent(event.ID)
	if err == nil {
		s.logger.Info("skipping redelivered webhook event", zap.String("event_id", event.ID))
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check webhook event: %w", err)
	}

	record := &models.WebhookEvent{
		ID:          event.ID,
		Type:        event.Type,
		EventAt:     event.Timestamp,
		ProcessedAt: event.Timestamp,
	}
	if err := tx.CreateEvent(record); err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return true, nil
}

// subscriptionFor loads the subscription or seeds a row when an event
// arrives before the subscription was ever seen.
func (s *BillingService) subscriptionFor(tx repository.BillingRepository, id, userID, productID string) (*models.Subscription, error) {
	sub, err := tx.FindSubscription(id)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return &models.Subscription{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Status:    models.SubscriptionStatusActive,
	}, nil
}

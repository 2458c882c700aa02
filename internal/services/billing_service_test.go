package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/repository"
)

type billingTestEnv struct {
	db      *gorm.DB
	repo    repository.BillingRepository
	service *BillingService
	user    *models.User
}

func setupBillingTestEnv(t *testing.T) billingTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
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

	user := &models.User{Name: "Billing User", Email: "billing@example.com"}
	require.NoError(t, db.Create(user).Error)

	repo := repository.NewBillingRepository(db)
	return billingTestEnv{
		db:      db,
		repo:    repo,
		service: NewBillingService(repo, zap.NewNop()),
		user:    user,
	}
}

func subscriptionEvent(t *testing.T, id, eventType, subID, userID string, at time.Time) *polar.Event {
	t.Helper()
	data, err := json.Marshal(polar.SubscriptionData{
		ID:                 subID,
		ProductID:          "prod-1",
		ExternalCustomerID: userID,
	})
	require.NoError(t, err)
	return &polar.Event{
		ID:        id,
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}
}

func orderEvent(t *testing.T, id, orderID, subID, userID string, at time.Time) *polar.Event {
	t.Helper()
	data, err := json.Marshal(polar.OrderData{
		ID:                 orderID,
		Amount:             990,
		Currency:           "usd",
		SubscriptionID:     &subID,
		ProductID:          "prod-1",
		ExternalCustomerID: userID,
	})
	require.NoError(t, err)
	return &polar.Event{
		ID:        id,
		Type:      polar.EventOrderPaid,
		Timestamp: at,
		Data:      data,
	}
}

func TestBillingService_OrderPaidActivatesSubscription(t *testing.T) {
	env := setupBillingTestEnv(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := env.service.HandleEvent(orderEvent(t, "evt-1", "order-1", "sub-1", env.user.ID, at))
	require.NoError(t, err)

	order, err := env.repo.FindOrder("order-1")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, order.Status)
	require.NotNil(t, order.PaidAt)

	sub, err := env.repo.FindSubscription("sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusActive, sub.Status)

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", env.user.ID).Error)
	require.NotNil(t, user.SubscriptionID)
	require.Equal(t, "sub-1", *user.SubscriptionID)
}

func TestBillingService_RedeliveredEventIsNoOp(t *testing.T) {
	env := setupBillingTestEnv(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	event := orderEvent(t, "evt-1", "order-1", "sub-1", env.user.ID, at)
	require.NoError(t, env.service.HandleEvent(event))

	// Cancel, then replay the original paid event with the same id. The
	// replay must not resurrect the subscription.
	cancel := subscriptionEvent(t, "evt-2", polar.EventSubscriptionCanceled, "sub-1", env.user.ID, at.Add(time.Hour))
	require.NoError(t, env.service.HandleEvent(cancel))

	require.NoError(t, env.service.HandleEvent(event))

	sub, err := env.repo.FindSubscription("sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
}

func TestBillingService_OutOfOrderEventsResolveLastWriteWins(t *testing.T) {
	env := setupBillingTestEnv(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// The revocation arrives first, carrying the newer provider timestamp.
	revoke := subscriptionEvent(t, "evt-2", polar.EventSubscriptionRevoked, "sub-1", env.user.ID, at.Add(time.Hour))
	require.NoError(t, env.service.HandleEvent(revoke))

	// The older paid event arrives late and must lose.
	require.NoError(t, env.service.HandleEvent(orderEvent(t, "evt-1", "order-1", "sub-1", env.user.ID, at)))

	sub, err := env.repo.FindSubscription("sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusRevoked, sub.Status)
}

func TestBillingService_CanceledKeepsUserLink(t *testing.T) {
	env := setupBillingTestEnv(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, env.service.HandleEvent(orderEvent(t, "evt-1", "order-1", "sub-1", env.user.ID, at)))
	require.NoError(t, env.service.HandleEvent(
		subscriptionEvent(t, "evt-2", polar.EventSubscriptionCanceled, "sub-1", env.user.ID, at.Add(time.Hour))))

	sub, err := env.repo.FindSubscription("sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
	require.NotNil(t, sub.CanceledAt)
	require.Nil(t, sub.RevokedAt)

	// Cancellation keeps the subscription on the user until the period ends.
	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", env.user.ID).Error)
	require.NotNil(t, user.SubscriptionID)
}

func TestBillingService_RevokedClearsUserLink(t *testing.T) {
	env := setupBillingTestEnv(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, env.service.HandleEvent(orderEvent(t, "evt-1", "order-1", "sub-1", env.user.ID, at)))
	require.NoError(t, env.service.HandleEvent(
		subscriptionEvent(t, "evt-2", polar.EventSubscriptionRevoked, "sub-1", env.user.ID, at.Add(time.Hour))))

	sub, err := env.repo.FindSubscription("sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusRevoked, sub.Status)
	require.NotNil(t, sub.RevokedAt)

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", env.user.ID).Error)
	require.Nil(t, user.SubscriptionID)
}

func TestBillingService_UnknownEventType(t *testing.T) {
	env := setupBillingTestEnv(t)

	err := env.service.HandleEvent(&polar.Event{
		ID:        "evt-x",
		Type:      "customer.updated",
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{}`),
	})
	require.ErrorIs(t, err, ErrUnknownEventType)
}

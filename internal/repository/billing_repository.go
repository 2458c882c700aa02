package repository

import (
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// GormBillingRepository is a GORM implementation of BillingRepository
type GormBillingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &GormBillingRepository{db: db}
}

// Transaction runs fn against a transactional copy of the repository.
func (r *GormBillingRepository) Transaction(fn func(BillingRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormBillingRepository{db: tx})
	})
}

// FindEvent finds a processed webhook event by provider event id
func (r *GormBillingRepository) FindEvent(id string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent records a processed webhook event
func (r *GormBillingRepository) CreateEvent(event *models.WebhookEvent) error {
	return r.db.Create(event).Error
}

// FindSubscription finds a subscription by provider subscription id
func (r *GormBillingRepository) FindSubscription(id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// SaveSubscription persists the full subscription record
func (r *GormBillingRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// FindOrder finds an order by provider order id
func (r *GormBillingRepository) FindOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveOrder persists the full order record
func (r *GormBillingRepository) SaveOrder(order *models.Order) error {
	return r.db.Save(order).Error
}

// SetUserSubscription links or clears the subscription reference on a user
func (r *GormBillingRepository) SetUserSubscription(userID string, subscriptionID *string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_id", subscriptionID).Error
}

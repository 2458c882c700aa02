package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive SubscriptionStatus = "active"
	// Canceled marks a user-initiated cancellation.
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	// Revoked marks a provider-forced termination, e.g. for non-payment.
	SubscriptionStatusRevoked SubscriptionStatus = "revoked"
)

// Subscription mirrors the billing provider's subscription state for a user.
// Rows are never deleted; cancellation and revocation only change status.
type Subscription struct {
	// ID is the provider-assigned subscription id.
	ID        string             `gorm:"type:varchar(255);primarykey" json:"id"`
	UserID    string             `gorm:"type:varchar(36);index;not null" json:"user_id"`
	ProductID string             `gorm:"type:varchar(255);not null" json:"product_id"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// LastEventAt is the provider timestamp of the newest event applied to
	// this row; older events lose on conflict.
	LastEventAt time.Time  `gorm:"not null" json:"last_event_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	RevokedAt   *time.Time `json:"revoked_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order records a purchase against a user, optionally tied to a
// subscription and the checkout it came from.
type Order struct {
	// ID is the provider-assigned order id.
	ID             string      `gorm:"type:varchar(255);primarykey" json:"id"`
	UserID         string      `gorm:"type:varchar(36);index;not null" json:"user_id"`
	SubscriptionID *string     `gorm:"type:varchar(255);index" json:"subscription_id"`
	CheckoutID     *string     `gorm:"type:varchar(255)" json:"checkout_id"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Amount         int64       `gorm:"not null;default:0" json:"amount"`
	Currency       string      `gorm:"type:varchar(10);not null;default:'usd'" json:"currency"`
	PaidAt         *time.Time  `json:"paid_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// WebhookEvent stores processed provider event ids so redelivered events are
// recognized and skipped.
type WebhookEvent struct {
	// ID is the provider-assigned event id.
	ID          string    `gorm:"type:varchar(255);primarykey" json:"id"`
	Type        string    `gorm:"type:varchar(100);not null" json:"type"`
	EventAt     time.Time `gorm:"not null" json:"event_at"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}

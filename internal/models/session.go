package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session binds an opaque token (delivered as a cookie or a bearer token) to
// a user. Sessions live server-side so bearer and cookie requests resolve
// against the same store.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	IPAddress string    `gorm:"type:varchar(64)" json:"-"`
	UserAgent string    `gorm:"type:varchar(512)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the session is past its lifetime at the given
// instant. A session is valid up to and including expiry, expired strictly
// after it.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

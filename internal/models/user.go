package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultUserRole = "user"

// User is an identity record. Users are created on first successful OAuth
// sign-in; there is no local password storage.
type User struct {
	ID               string  `gorm:"type:varchar(36);primarykey" json:"id"`
	Name             string  `gorm:"type:varchar(255);not null" json:"name"`
	Email            string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	EmailVerified    bool    `gorm:"not null;default:false" json:"email_verified"`
	Image            *string `gorm:"type:varchar(512)" json:"image"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'" json:"role"`
	Phone            *string `gorm:"type:varchar(50)" json:"phone"`
	PhoneVerified    bool    `gorm:"not null;default:false" json:"phone_verified"`
	ProfileCompleted bool    `gorm:"not null;default:false" json:"profile_completed"`
	SubscriptionID   *string `gorm:"type:varchar(255)" json:"subscription_id"`

	GithubID       *string `gorm:"type:varchar(100);index" json:"-"`
	GithubUsername *string `gorm:"type:varchar(255)" json:"github_username,omitempty"`
	GoogleID       *string `gorm:"type:varchar(100);index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sessions      []Session            `gorm:"foreignKey:UserID" json:"-"`
	Organizations []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
	Teams         []TeamMember         `gorm:"foreignKey:UserID" json:"-"`
	Stories       []Story              `gorm:"foreignKey:AssigneeID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = DefaultUserRole
	}
	return nil
}

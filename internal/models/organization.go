package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is owned by a single user. Ownership is set at creation and
// never reassigned by any visible flow.
type Organization struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	OwnerID   string    `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner    User                 `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members  []OrganizationMember `gorm:"foreignKey:OrgID" json:"members,omitempty"`
	Teams    []Team               `gorm:"foreignKey:OrgID" json:"teams,omitempty"`
	Projects []Project            `gorm:"foreignKey:OrgID" json:"projects,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

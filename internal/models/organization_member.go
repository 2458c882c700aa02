package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationMemberRole string

const (
	OrgRoleOwner  OrganizationMemberRole = "OWNER"
	OrgRoleAdmin  OrganizationMemberRole = "ADMIN"
	OrgRoleMember OrganizationMemberRole = "MEMBER"
)

// OrganizationMember is the role-tagged join between organizations and
// users, unique per (org, user) pair.
type OrganizationMember struct {
	ID        string                 `gorm:"type:varchar(36);primarykey" json:"id"`
	OrgID     string                 `gorm:"type:varchar(36);uniqueIndex:idx_org_members_org_user;not null" json:"org_id"`
	UserID    string                 `gorm:"type:varchar(36);uniqueIndex:idx_org_members_org_user;not null" json:"user_id"`
	Role      OrganizationMemberRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time              `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

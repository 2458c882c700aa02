package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamMemberRole string

const (
	TeamRoleLead   TeamMemberRole = "LEAD"
	TeamRoleMember TeamMemberRole = "MEMBER"
)

// TeamMember is the role-tagged join between teams and users, unique per
// (team, user) pair.
type TeamMember struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	TeamID    string         `gorm:"type:varchar(36);uniqueIndex:idx_team_members_team_user;not null" json:"team_id"`
	UserID    string         `gorm:"type:varchar(36);uniqueIndex:idx_team_members_team_user;not null" json:"user_id"`
	Role      TeamMemberRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time      `json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

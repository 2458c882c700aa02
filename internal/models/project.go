package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project belongs to an organization and optionally to one of its teams.
type Project struct {
	ID            string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   *string   `gorm:"type:text" json:"description"`
	GithubRepoURL *string   `gorm:"type:varchar(512)" json:"github_repo_url"`
	OrgID         string    `gorm:"type:varchar(36);index;not null" json:"org_id"`
	TeamID        *string   `gorm:"type:varchar(36);index" json:"team_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Organization Organization      `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
	Team         *Team             `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Sprints      []Sprint          `gorm:"foreignKey:ProjectID" json:"sprints,omitempty"`
	Repository   *GithubRepository `gorm:"foreignKey:ProjectID" json:"repository,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GithubRepository mirrors the identity of a remote repository linked to a
// project.
type GithubRepository struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	GithubRepoID int64     `gorm:"uniqueIndex;not null" json:"github_repo_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Private      bool      `gorm:"not null;default:false" json:"private"`
	HTMLURL      string    `gorm:"type:varchar(512);not null" json:"html_url"`
	Description  *string   `gorm:"type:text" json:"description"`
	ProjectID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"project_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (r *GithubRepository) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SprintStatus string

const (
	SprintStatusPlanned SprintStatus = "PLANNED"
	SprintStatusActive  SprintStatus = "ACTIVE"
	SprintStatusDone    SprintStatus = "DONE"
)

// Valid reports whether s is one of the declared sprint statuses.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintStatusPlanned, SprintStatusActive, SprintStatusDone:
		return true
	}
	return false
}

// Sprint is a time-boxed iteration inside a project, run by a team.
type Sprint struct {
	ID        string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	Goal      string       `gorm:"type:text" json:"goal"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	EndDate   time.Time    `gorm:"not null" json:"end_date"`
	Status    SprintStatus `gorm:"type:varchar(20);not null;default:'PLANNED'" json:"status"`
	ProjectID string       `gorm:"type:varchar(36);index;not null" json:"project_id"`
	TeamID    string       `gorm:"type:varchar(36);index;not null" json:"team_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Team    Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Stories []Story `gorm:"foreignKey:SprintID" json:"stories,omitempty"`
}

func (s *Sprint) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryStatus string

const (
	StoryStatusTodo       StoryStatus = "TODO"
	StoryStatusInProgress StoryStatus = "IN_PROGRESS"
	StoryStatusDone       StoryStatus = "DONE"
)

// Valid reports whether s is one of the declared story statuses.
func (s StoryStatus) Valid() bool {
	switch s {
	case StoryStatusTodo, StoryStatusInProgress, StoryStatusDone:
		return true
	}
	return false
}

type StoryPriority string

const (
	StoryPriorityLow    StoryPriority = "LOW"
	StoryPriorityMedium StoryPriority = "MEDIUM"
	StoryPriorityHigh   StoryPriority = "HIGH"
)

// Valid reports whether p is one of the declared story priorities.
func (p StoryPriority) Valid() bool {
	switch p {
	case StoryPriorityLow, StoryPriorityMedium, StoryPriorityHigh:
		return true
	}
	return false
}

// Story is a unit of work estimated in points. Its sprint must belong to the
// same project the story belongs to.
type Story struct {
	ID          string        `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Points      int           `gorm:"not null;default:0" json:"points"`
	Priority    StoryPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status      StoryStatus   `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	AssigneeID  *string       `gorm:"type:varchar(36);index" json:"assignee_id"`
	ProjectID   string        `gorm:"type:varchar(36);index;not null" json:"project_id"`
	SprintID    string        `gorm:"type:varchar(36);index;not null" json:"sprint_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Sprint   Sprint  `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// UserPatch is a partial view over User for profile updates.
type UserPatch struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Image            *string `json:"image"`
	Role             *string `json:"role"`
	Phone            *string `json:"phone"`
	PhoneVerified    *bool   `json:"phone_verified"`
	ProfileCompleted *bool   `json:"profile_completed"`
	SubscriptionID   *string `json:"subscription_id"`
}

func (p UserPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "name", p.Name)
	setString(c, "email", p.Email)
	if p.Image != nil {
		c["image"] = *p.Image
	}
	setString(c, "role", p.Role)
	if p.Phone != nil {
		c["phone"] = *p.Phone
	}
	setBool(c, "phone_verified", p.PhoneVerified)
	setBool(c, "profile_completed", p.ProfileCompleted)
	if p.SubscriptionID != nil {
		c["subscription_id"] = *p.SubscriptionID
	}
	return c
}

// OrganizationPatch is a partial view over Organization. OwnerID is absent on
// purpose: ownership is immutable after creation.
type OrganizationPatch struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

func (p OrganizationPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "name", p.Name)
	setString(c, "slug", p.Slug)
	return c
}

// TeamPatch is a partial view over Team.
type TeamPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (p TeamPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "name", p.Name)
	if p.Description != nil {
		c["description"] = *p.Description
	}
	return c
}

// ProjectPatch is a partial view over Project.
type ProjectPatch struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	GithubRepoURL *string `json:"github_repo_url"`
	TeamID        *string `json:"team_id"`
}

func (p ProjectPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "name", p.Name)
	if p.Description != nil {
		c["description"] = *p.Description
	}
	if p.GithubRepoURL != nil {
		c["github_repo_url"] = *p.GithubRepoURL
	}
	if p.TeamID != nil {
		c["team_id"] = *p.TeamID
	}
	return c
}

// SprintPatch is a partial view over Sprint.
type SprintPatch struct {
	Name      *string              `json:"name"`
	Goal      *string              `json:"goal"`
	StartDate *time.Time           `json:"start_date"`
	EndDate   *time.Time           `json:"end_date"`
	Status    *models.SprintStatus `json:"status"`
}

func (p SprintPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "name", p.Name)
	setString(c, "goal", p.Goal)
	if p.StartDate != nil {
		c["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		c["end_date"] = *p.EndDate
	}
	if p.Status != nil {
		c["status"] = *p.Status
	}
	return c
}

// StoryPatch is a partial view over Story.
type StoryPatch struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Points      *int                  `json:"points"`
	Priority    *models.StoryPriority `json:"priority"`
	Status      *models.StoryStatus   `json:"status"`
	AssigneeID  *string               `json:"assignee_id"`
}

func (p StoryPatch) Changes() map[string]interface{} {
	c := map[string]interface{}{}
	setString(c, "title", p.Title)
	setString(c, "description", p.Description)
	if p.Points != nil {
		c["points"] = *p.Points
	}
	if p.Priority != nil {
		c["priority"] = *p.Priority
	}
	if p.Status != nil {
		c["status"] = *p.Status
	}
	if p.AssigneeID != nil {
		c["assignee_id"] = *p.AssigneeID
	}
	return c
}

func setString(c map[string]interface{}, column string, v *string) {
	if v != nil {
		c[column] = *v
	}
}

func setBool(c map[string]interface{}, column string, v *bool) {
	if v != nil {
		c[column] = *v
	}
}

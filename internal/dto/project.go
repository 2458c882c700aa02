package dto

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   *string              `json:"description,omitempty"`
	GithubRepoURL *string              `json:"github_repo_url,omitempty"`
	OrgID         string               `json:"org_id"`
	TeamID        *string              `json:"team_id,omitempty"`
	Repository    *GithubRepositoryDTO `json:"repository,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// GithubRepositoryDTO represents a linked GitHub repository
type GithubRepositoryDTO struct {
	ID           string  `json:"id"`
	GithubRepoID int64   `json:"github_repo_id"`
	Name         string  `json:"name"`
	FullName     string  `json:"full_name"`
	Private      bool    `json:"private"`
	HTMLURL      string  `json:"html_url"`
	Description  *string `json:"description,omitempty"`
}

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Goal      string              `json:"goal"`
	StartDate time.Time           `json:"start_date"`
	EndDate   time.Time           `json:"end_date"`
	Status    models.SprintStatus `json:"status"`
	ProjectID string              `json:"project_id"`
	TeamID    string              `json:"team_id"`
}

// StoryDTO represents a story in API responses
type StoryDTO struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Points      int                  `json:"points"`
	Priority    models.StoryPriority `json:"priority"`
	Status      models.StoryStatus   `json:"status"`
	AssigneeID  *string              `json:"assignee_id,omitempty"`
	Assignee    *UserDTO             `json:"assignee,omitempty"`
	ProjectID   string               `json:"project_id"`
	SprintID    string               `json:"sprint_id"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		GithubRepoURL: project.GithubRepoURL,
		OrgID:         project.OrgID,
		TeamID:        project.TeamID,
		CreatedAt:     project.CreatedAt,
	}
	if project.Repository != nil {
		repo := ToGithubRepositoryDTO(*project.Repository)
		dto.Repository = &repo
	}
	return dto
}

// ToGithubRepositoryDTO converts a GithubRepository model to its DTO
func ToGithubRepositoryDTO(repo models.GithubRepository) GithubRepositoryDTO {
	return GithubRepositoryDTO{
		ID:           repo.ID,
		GithubRepoID: repo.GithubRepoID,
		Name:         repo.Name,
		FullName:     repo.FullName,
		Private:      repo.Private,
		HTMLURL:      repo.HTMLURL,
		Description:  repo.Description,
	}
}

// ToSprintDTO converts a Sprint model to SprintDTO
func ToSprintDTO(sprint models.Sprint) SprintDTO {
	return SprintDTO{
		ID:        sprint.ID,
		Name:      sprint.Name,
		Goal:      sprint.Goal,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		Status:    sprint.Status,
		ProjectID: sprint.ProjectID,
		TeamID:    sprint.TeamID,
	}
}

// ToStoryDTO converts a Story model to StoryDTO
func ToStoryDTO(story models.Story) StoryDTO {
	dto := StoryDTO{
		ID:          story.ID,
		Title:       story.Title,
		Description: story.Description,
		Points:      story.Points,
		Priority:    story.Priority,
		Status:      story.Status,
		AssigneeID:  story.AssigneeID,
		ProjectID:   story.ProjectID,
		SprintID:    story.SprintID,
		CreatedAt:   story.CreatedAt,
	}
	if story.Assignee != nil {
		assignee := ToUserDTO(*story.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

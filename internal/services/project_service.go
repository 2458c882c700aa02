package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrSprintNotFound         = errors.New("sprint not found")
	ErrStoryNotFound          = errors.New("story not found")
	ErrSprintProjectMismatch  = errors.New("sprint does not belong to the story's project")
	ErrSprintDatesInvalid     = errors.New("sprint end date must be after start date")
	ErrInvalidSprintStatus    = errors.New("invalid sprint status")
	ErrInvalidStoryStatus     = errors.New("invalid story status")
	ErrInvalidStoryPriority   = errors.New("invalid story priority")
	ErrAssigneeNotFound       = errors.New("assignee not found")
	ErrFailedToCreateProject  = errors.New("failed to create project")
	ErrFailedToLinkRepository = errors.New("failed to link repository")
)

// ProjectService handles project, sprint and story business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput holds the fields for creating a project.
type CreateProjectInput struct {
	OrgID         string
	Name          string
	Description   *string
	GithubRepoURL *string
	TeamID        *string
}

// CreateProject creates a project inside an organization, optionally tied to
// a team and a GitHub repository URL.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	project := &models.Project{
		Name:          name,
		Description:   input.Description,
		GithubRepoURL: input.GithubRepoURL,
		OrgID:         input.OrgID,
		TeamID:        input.TeamID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, ErrFailedToCreateProject
	}
	return project, nil
}

// ListProjects lists the projects of an organization.
func (s *ProjectService) ListProjects(orgID string) ([]models.Project, error) {
	return s.projectRepo.ListByOrgID(orgID)
}

// GetProject retrieves a project.
func (s *ProjectService) GetProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject applies a patch.
func (s *ProjectService) UpdateProject(id string, patch domain.ProjectPatch) (*models.Project, error) {
	if err := s.projectRepo.Patch(id, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.GetProject(id)
}

// LinkRepositoryInput mirrors the identity of a remote GitHub repository.
type LinkRepositoryInput struct {
	GithubRepoID int64
	Name         string
	FullName     string
	Private      bool
	HTMLURL      string
	Description  *string
}

// LinkRepository attaches GitHub repository metadata to a project.
func (s *ProjectService) LinkRepository(projectID string, input LinkRepositoryInput) (*models.GithubRepository, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}

	repo := &models.GithubRepository{
		GithubRepoID: input.GithubRepoID,
		Name:         input.Name,
		FullName:     input.FullName,
		Private:      input.Private,
		HTMLURL:      input.HTMLURL,
		Description:  input.Description,
		ProjectID:    projectID,
	}
	if err := s.projectRepo.AttachRepository(repo); err != nil {
		return nil, ErrFailedToLinkRepository
	}
	return repo, nil
}

// CreateSprintInput holds the fields for creating a sprint.
type CreateSprintInput struct {
	ProjectID string
	TeamID    string
	Name      string
	Goal      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateSprint creates a sprint inside a project. New sprints start planned.
func (s *ProjectService) CreateSprint(input CreateSprintInput) (*models.Sprint, error) {
	if _, err := s.GetProject(input.ProjectID); err != nil {
		return nil, err
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrSprintDatesInvalid
	}

	sprint := &models.Sprint{
		Name:      strings.TrimSpace(input.Name),
		Goal:      input.Goal,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    models.SprintStatusPlanned,
		ProjectID: input.ProjectID,
		TeamID:    input.TeamID,
	}
	if err := s.projectRepo.CreateSprint(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}
	return sprint, nil
}

// ListSprints lists the sprints of a project.
func (s *ProjectService) ListSprints(projectID string) ([]models.Sprint, error) {
	return s.projectRepo.ListSprintsByProject(projectID)
}

// UpdateSprint applies a patch. Status values outside the declared set are
// rejected before anything is written.
func (s *ProjectService) UpdateSprint(id string, patch domain.SprintPatch) (*models.Sprint, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidSprintStatus
	}

	if err := s.projectRepo.PatchSprint(id, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to update sprint: %w", err)
	}

	sprint, err := s.projectRepo.FindSprintByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, err
	}
	return sprint, nil
}

// CreateStoryInput holds the fields for creating a story.
type CreateStoryInput struct {
	ProjectID   string
	SprintID    string
	Title       string
	Description string
	Points      int
	Priority    models.StoryPriority
	AssigneeID  *string
}

// CreateStory creates a story in a sprint. The sprint must belong to the
// same project the story is created under.
func (s *ProjectService) CreateStory(input CreateStoryInput) (*models.Story, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("story title is required")
	}

	sprint, err := s.projectRepo.FindSprintByID(input.SprintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	if sprint.ProjectID != input.ProjectID {
		return nil, ErrSprintProjectMismatch
	}

	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.StoryPriorityMedium
	} else if !priority.Valid() {
		return nil, ErrInvalidStoryPriority
	}

	story := &models.Story{
		Title:       title,
		Description: input.Description,
		Points:      input.Points,
		Priority:    priority,
		Status:      models.StoryStatusTodo,
		AssigneeID:  input.AssigneeID,
		ProjectID:   input.ProjectID,
		SprintID:    input.SprintID,
	}
	if err := s.projectRepo.CreateStory(story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

// ListStories lists one page of a sprint's stories and the total count.
func (s *ProjectService) ListStories(sprintID string, params utils.PaginationParams) ([]models.Story, int64, error) {
	return s.projectRepo.ListStoriesBySprint(sprintID, params)
}

// UpdateStory applies a patch. Reassignment verifies the assignee exists;
// status and priority must come from the declared sets.
func (s *ProjectService) UpdateStory(id string, patch domain.StoryPatch) (*models.Story, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidStoryStatus
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, ErrInvalidStoryPriority
	}

	if patch.AssigneeID != nil && *patch.AssigneeID != "" {
		if _, err := s.userRepo.FindByID(*patch.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
	}

	if err := s.projectRepo.PatchStory(id, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}

	story, err := s.projectRepo.FindStoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return story, nil
}

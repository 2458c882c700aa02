package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leocodeio/gitsprint-api/internal/database"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Repository").Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOrgID lists all projects of an organization
func (r *GormProjectRepository) ListByOrgID(orgID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Patch applies a partial column update to a project
func (r *GormProjectRepository) Patch(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(changes).Error
}

// AttachRepository links GitHub repository metadata to a project. A project
// carries at most one link, so an existing row for the project is replaced.
func (r *GormProjectRepository) AttachRepository(repo *models.GithubRepository) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"github_repo_id", "name", "full_name", "private", "html_url", "description", "updated_at",
			}),
		}).
		Create(repo).Error
}

// CreateSprint creates a new sprint
func (r *GormProjectRepository) CreateSprint(sprint *models.Sprint) error {
	return r.db.Create(sprint).Error
}

// FindSprintByID finds a sprint by ID
func (r *GormProjectRepository) FindSprintByID(id string) (*models.Sprint, error) {
	var sprint models.Sprint
	if err := r.db.Where("id = ?", id).First(&sprint).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListSprintsByProject lists the sprints of a project, newest first
func (r *GormProjectRepository) ListSprintsByProject(projectID string) ([]models.Sprint, error) {
	var sprints []models.Sprint
	if err := r.db.Where("project_id = ?", projectID).
		Order("start_date DESC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// PatchSprint applies a partial column update to a sprint
func (r *GormProjectRepository) PatchSprint(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.Sprint{}).Where("id = ?", id).Updates(changes).Error
}

// CreateStory creates a new story
func (r *GormProjectRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

// FindStoryByID finds a story by ID
func (r *GormProjectRepository) FindStoryByID(id string) (*models.Story, error) {
	var story models.Story
	if err := r.db.Preload("Assignee").Where("id = ?", id).First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// ListStoriesBySprint lists one page of a sprint's stories along with the
// total count
func (r *GormProjectRepository) ListStoriesBySprint(sprintID string, params utils.PaginationParams) ([]models.Story, int64, error) {
	var total int64
	if err := r.db.Model(&models.Story{}).
		Where("sprint_id = ?", sprintID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stories []models.Story
	if err := r.db.Preload("Assignee").
		Where("sprint_id = ?", sprintID).
		Order("created_at ASC").
		Scopes(database.Paginate(params)).
		Find(&stories).Error; err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

// PatchStory applies a partial column update to a story
func (r *GormProjectRepository) PatchStory(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.Story{}).Where("id = ?", id).Updates(changes).Error
}

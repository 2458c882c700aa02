package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

type projectTestEnv struct {
	db      *gorm.DB
	service *ProjectService
	org     *models.Organization
	user    *models.User
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Project{},
		&models.GithubRepository{},
		&models.Sprint{},
		&models.Story{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	user := &models.User{Name: "Dev", Email: "dev@example.com"}
	require.NoError(t, db.Create(user).Error)
	org := &models.Organization{Name: "Acme", Slug: "acme", OwnerID: user.ID}
	require.NoError(t, db.Create(org).Error)

	service := NewProjectService(repository.NewProjectRepository(db), repository.NewUserRepository(db))
	return projectTestEnv{db: db, service: service, org: org, user: user}
}

func (env projectTestEnv) createProject(t *testing.T, name string) *models.Project {
	t.Helper()
	project, err := env.service.CreateProject(CreateProjectInput{
		OrgID: env.org.ID,
		Name:  name,
	})
	require.NoError(t, err)
	return project
}

func (env projectTestEnv) createSprint(t *testing.T, projectID string) *models.Sprint {
	t.Helper()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sprint, err := env.service.CreateSprint(CreateSprintInput{
		ProjectID: projectID,
		TeamID:    "team-1",
		Name:      "Sprint 1",
		Goal:      "Ship the walking skeleton",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	return sprint
}

func TestProjectService_CreateSprintRejectsInvalidDates(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := env.service.CreateSprint(CreateSprintInput{
		ProjectID: project.ID,
		TeamID:    "team-1",
		Name:      "Backwards",
		StartDate: start,
		EndDate:   start,
	})
	require.ErrorIs(t, err, ErrSprintDatesInvalid)
}

func TestProjectService_NewSprintStartsPlanned(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")

	sprint := env.createSprint(t, project.ID)
	require.Equal(t, models.SprintStatusPlanned, sprint.Status)
}

func TestProjectService_CreateStoryRejectsSprintFromOtherProject(t *testing.T) {
	env := setupProjectTestEnv(t)
	projectA := env.createProject(t, "API")
	projectB := env.createProject(t, "Web")
	sprintA := env.createSprint(t, projectA.ID)

	_, err := env.service.CreateStory(CreateStoryInput{
		ProjectID: projectB.ID,
		SprintID:  sprintA.ID,
		Title:     "Misfiled story",
	})
	require.ErrorIs(t, err, ErrSprintProjectMismatch)
}

func TestProjectService_CreateStoryDefaults(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	story, err := env.service.CreateStory(CreateStoryInput{
		ProjectID: project.ID,
		SprintID:  sprint.ID,
		Title:     "Implement sign-in",
		Points:    3,
	})
	require.NoError(t, err)
	require.Equal(t, models.StoryStatusTodo, story.Status)
	require.Equal(t, models.StoryPriorityMedium, story.Priority)
	require.Nil(t, story.AssigneeID)
}

func TestProjectService_CreateStoryRejectsUnknownAssignee(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	ghost := "no-such-user"
	_, err := env.service.CreateStory(CreateStoryInput{
		ProjectID:  project.ID,
		SprintID:   sprint.ID,
		Title:      "Orphan story",
		AssigneeID: &ghost,
	})
	require.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestProjectService_UpdateStoryReassigns(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	story, err := env.service.CreateStory(CreateStoryInput{
		ProjectID: project.ID,
		SprintID:  sprint.ID,
		Title:     "Implement sign-in",
	})
	require.NoError(t, err)

	status := models.StoryStatusInProgress
	updated, err := env.service.UpdateStory(story.ID, domain.StoryPatch{
		AssigneeID: &env.user.ID,
		Status:     &status,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	require.Equal(t, env.user.ID, *updated.AssigneeID)
	require.Equal(t, models.StoryStatusInProgress, updated.Status)
}

func TestProjectService_UpdateSprintRejectsUnknownStatus(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	bogus := models.SprintStatus("SHIPPED")
	_, err := env.service.UpdateSprint(sprint.ID, domain.SprintPatch{Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidSprintStatus)

	// Nothing was written.
	reloaded, err := env.service.UpdateSprint(sprint.ID, domain.SprintPatch{})
	require.NoError(t, err)
	require.Equal(t, models.SprintStatusPlanned, reloaded.Status)
}

func TestProjectService_UpdateStoryRejectsUnknownEnumValues(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	story, err := env.service.CreateStory(CreateStoryInput{
		ProjectID: project.ID,
		SprintID:  sprint.ID,
		Title:     "Implement sign-in",
	})
	require.NoError(t, err)

	badStatus := models.StoryStatus("BLOCKED")
	_, err = env.service.UpdateStory(story.ID, domain.StoryPatch{Status: &badStatus})
	require.ErrorIs(t, err, ErrInvalidStoryStatus)

	badPriority := models.StoryPriority("URGENT")
	_, err = env.service.UpdateStory(story.ID, domain.StoryPatch{Priority: &badPriority})
	require.ErrorIs(t, err, ErrInvalidStoryPriority)
}

func TestProjectService_CreateStoryRejectsUnknownPriority(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	_, err := env.service.CreateStory(CreateStoryInput{
		ProjectID: project.ID,
		SprintID:  sprint.ID,
		Title:     "Implement sign-in",
		Priority:  models.StoryPriority("URGENT"),
	})
	require.ErrorIs(t, err, ErrInvalidStoryPriority)
}

func TestProjectService_ListStoriesPaginates(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")
	sprint := env.createSprint(t, project.ID)

	for i := 0; i < 5; i++ {
		_, err := env.service.CreateStory(CreateStoryInput{
			ProjectID: project.ID,
			SprintID:  sprint.ID,
			Title:     fmt.Sprintf("Story %d", i),
		})
		require.NoError(t, err)
	}

	page, total, err := env.service.ListStories(sprint.ID, utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, page, 2)
}

func TestProjectService_LinkRepositoryReplacesPreviousLink(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "API")

	_, err := env.service.LinkRepository(project.ID, LinkRepositoryInput{
		GithubRepoID: 100,
		Name:         "api",
		FullName:     "acme/api",
		HTMLURL:      "https://github.com/acme/api",
	})
	require.NoError(t, err)

	// Linking again swaps the metadata in place.
	_, err = env.service.LinkRepository(project.ID, LinkRepositoryInput{
		GithubRepoID: 200,
		Name:         "api-v2",
		FullName:     "acme/api-v2",
		HTMLURL:      "https://github.com/acme/api-v2",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.GithubRepository{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

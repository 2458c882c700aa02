package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/dto"
	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

// ProjectHandler handles project and sprint HTTP requests
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /api/organizations/:id/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	type createRequest struct {
		Name          string  `json:"name" binding:"required"`
		Description   *string `json:"description"`
		GithubRepoURL *string `json:"github_repo_url"`
		TeamID        *string `json:"team_id"`
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Project name is required")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		OrgID:         c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		GithubRepoURL: req.GithubRepoURL,
		TeamID:        req.TeamID,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// List handles GET /api/organizations/:id/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = dto.ToProjectDTO(project)
	}
	c.JSON(http.StatusOK, gin.H{"projects": projectDTOs})
}

// Get handles GET /api/projects/:project_id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Param("project_id"))
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// Update handles PATCH /api/projects/:project_id
func (h *ProjectHandler) Update(c *gin.Context) {
	var patch domain.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Param("project_id"), patch)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// LinkRepository handles PUT /api/projects/:project_id/repository
func (h *ProjectHandler) LinkRepository(c *gin.Context) {
	type linkRequest struct {
		GithubRepoID int64   `json:"github_repo_id" binding:"required"`
		Name         string  `json:"name" binding:"required"`
		FullName     string  `json:"full_name" binding:"required"`
		Private      bool    `json:"private"`
		HTMLURL      string  `json:"html_url" binding:"required"`
		Description  *string `json:"description"`
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Repository identity fields are required")
		return
	}

	repo, err := h.projectService.LinkRepository(c.Param("project_id"), services.LinkRepositoryInput{
		GithubRepoID: req.GithubRepoID,
		Name:         req.Name,
		FullName:     req.FullName,
		Private:      req.Private,
		HTMLURL:      req.HTMLURL,
		Description:  req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrFailedToLinkRepository):
			apierrors.InternalError(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGithubRepositoryDTO(*repo))
}

// CreateSprint handles POST /api/projects/:project_id/sprints
func (h *ProjectHandler) CreateSprint(c *gin.Context) {
	type createSprintRequest struct {
		Name      string    `json:"name" binding:"required"`
		Goal      string    `json:"goal"`
		TeamID    string    `json:"team_id" binding:"required"`
		StartDate time.Time `json:"start_date" binding:"required"`
		EndDate   time.Time `json:"end_date" binding:"required"`
	}

	var req createSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Sprint name, team and dates are required")
		return
	}

	sprint, err := h.projectService.CreateSprint(services.CreateSprintInput{
		ProjectID: c.Param("project_id"),
		TeamID:    req.TeamID,
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrSprintDatesInvalid):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToSprintDTO(*sprint))
}

// ListSprints handles GET /api/projects/:project_id/sprints
func (h *ProjectHandler) ListSprints(c *gin.Context) {
	sprints, err := h.projectService.ListSprints(c.Param("project_id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to list sprints")
		return
	}

	sprintDTOs := make([]dto.SprintDTO, len(sprints))
	for i, sprint := range sprints {
		sprintDTOs[i] = dto.ToSprintDTO(sprint)
	}
	c.JSON(http.StatusOK, gin.H{"sprints": sprintDTOs})
}

// UpdateSprint handles PATCH /api/sprints/:sprint_id
func (h *ProjectHandler) UpdateSprint(c *gin.Context) {
	var patch domain.SprintPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.projectService.UpdateSprint(c.Param("sprint_id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSprintNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrInvalidSprintStatus):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

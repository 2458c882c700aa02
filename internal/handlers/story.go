package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/dto"
	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/services"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	projectService *services.ProjectService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(projectService *services.ProjectService) *StoryHandler {
	return &StoryHandler{projectService: projectService}
}

// Create handles POST /api/sprints/:sprint_id/stories
func (h *StoryHandler) Create(c *gin.Context) {
	type createRequest struct {
		ProjectID   string               `json:"project_id" binding:"required"`
		Title       string               `json:"title" binding:"required"`
		Description string               `json:"description"`
		Points      int                  `json:"points"`
		Priority    models.StoryPriority `json:"priority"`
		AssigneeID  *string              `json:"assignee_id"`
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Story title and project are required")
		return
	}

	story, err := h.projectService.CreateStory(services.CreateStoryInput{
		ProjectID:   req.ProjectID,
		SprintID:    c.Param("sprint_id"),
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSprintNotFound), errors.Is(err, services.ErrAssigneeNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrSprintProjectMismatch), errors.Is(err, services.ErrInvalidStoryPriority):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToStoryDTO(*story))
}

// List handles GET /api/sprints/:sprint_id/stories
func (h *StoryHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	stories, total, err := h.projectService.ListStories(c.Param("sprint_id"), params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list stories")
		return
	}

	storyDTOs := make([]dto.StoryDTO, len(stories))
	for i, story := range stories {
		storyDTOs[i] = dto.ToStoryDTO(story)
	}
	c.JSON(http.StatusOK, gin.H{
		"stories": storyDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Update handles PATCH /api/stories/:story_id
func (h *StoryHandler) Update(c *gin.Context) {
	var patch domain.StoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	story, err := h.projectService.UpdateStory(c.Param("story_id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStoryNotFound), errors.Is(err, services.ErrAssigneeNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrInvalidStoryStatus), errors.Is(err, services.ErrInvalidStoryPriority):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStoryDTO(*story))
}

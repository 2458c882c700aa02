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
)

// TeamHandler handles team HTTP requests
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// Create handles POST /api/organizations/:id/teams
func (h *TeamHandler) Create(c *gin.Context) {
	type createRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Team name is required")
		return
	}

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		OrgID:       c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create team")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// List handles GET /api/organizations/:id/teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Param("id"))
	if err != nil {
		apierrors.InternalError(c, "Failed to list teams")
		return
	}

	teamDTOs := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		teamDTOs[i] = dto.ToTeamDTO(team)
	}
	c.JSON(http.StatusOK, gin.H{"teams": teamDTOs})
}

// Get handles GET /api/teams/:team_id
func (h *TeamHandler) Get(c *gin.Context) {
	team, members, err := h.teamService.GetTeam(c.Param("team_id"))
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, members))
}

// Update handles PATCH /api/teams/:team_id
func (h *TeamHandler) Update(c *gin.Context) {
	var patch domain.TeamPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Param("team_id"), patch)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// AddMember handles POST /api/teams/:team_id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	type addMemberRequest struct {
		UserID string                `json:"user_id" binding:"required"`
		Role   models.TeamMemberRole `json:"role"`
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "User ID is required")
		return
	}

	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}

	member, err := h.teamService.AddMember(c.Param("team_id"), req.UserID, role)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyTeamMember) {
			apierrors.Conflict(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": member.UserID,
		"role":    member.Role,
	})
}

// RemoveMember handles DELETE /api/teams/:team_id/members/:user_id
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	err := h.teamService.RemoveMember(c.Param("team_id"), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrTeamMemberNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

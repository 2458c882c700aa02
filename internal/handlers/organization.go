package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/dto"
	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/middleware"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Create handles POST /api/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	type createRequest struct {
		Name string `json:"name" binding:"required"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Organization name is required")
		return
	}

	org, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrFailedToCreateOrg) {
			apierrors.InternalError(c, err.Error())
			return
		}
		apierrors.BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// List handles GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.orgService.ListOrganizations(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list organizations")
		return
	}

	orgs := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		orgs[i] = dto.ToOrganizationWithRoleDTO(membership)
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// Get handles GET /api/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	member, ok := middleware.GetOrganizationMember(c)
	if !ok {
		apierrors.Forbidden(c, "Organization access required")
		return
	}

	org, members, err := h.orgService.GetOrganization(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(*org, members, member.Role))
}

// Update handles PATCH /api/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	var patch domain.OrganizationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// AddMember handles POST /api/organizations/:id/members
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	type addMemberRequest struct {
		UserID string                        `json:"user_id" binding:"required"`
		Role   models.OrganizationMemberRole `json:"role"`
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "User ID is required")
		return
	}

	role := req.Role
	if role == "" {
		role = models.OrgRoleMember
	}

	member, err := h.orgService.AddMember(c.Param("id"), req.UserID, role)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyMember) {
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

// RemoveMember handles DELETE /api/organizations/:id/members/:user_id
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	err := h.orgService.RemoveMember(c.Param("id"), c.Param("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound), errors.Is(err, services.ErrMemberNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrCannotRemoveOwner):
			apierrors.Forbidden(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

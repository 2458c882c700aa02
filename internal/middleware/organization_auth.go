package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
)

const (
	contextKeyOrganization = "organization"
	contextKeyOrgMember    = "organization_member"
)

// RequireOrganizationAccess checks that the authenticated user is a member
// of the organization named in the route.
func RequireOrganizationAccess(orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("id")
		if orgID == "" {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		org, err := orgRepo.FindByID(orgID)
		if err != nil {
			// Membership failures answer 404 as well, so existence does not leak.
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		member, err := orgRepo.FindMember(orgID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Organization not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(contextKeyOrganization, org)
		c.Set(contextKeyOrgMember, member)
		c.Next()
	}
}

// RequireOrganizationOwner checks that the member resolved by
// RequireOrganizationAccess holds the OWNER role.
func RequireOrganizationOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetOrganizationMember(c)
		if !ok {
			apierrors.Forbidden(c, "Organization access required")
			c.Abort()
			return
		}

		if member.Role != models.OrgRoleOwner {
			apierrors.Forbidden(c, "Only organization owners can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetOrganization retrieves the organization resolved by RequireOrganizationAccess
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	value, exists := c.Get(contextKeyOrganization)
	if !exists {
		return nil, false
	}
	org, ok := value.(*models.Organization)
	return org, ok
}

// GetOrganizationMember retrieves the membership resolved by RequireOrganizationAccess
func GetOrganizationMember(c *gin.Context) (*models.OrganizationMember, bool) {
	value, exists := c.Get(contextKeyOrgMember)
	if !exists {
		return nil, false
	}
	member, ok := value.(*models.OrganizationMember)
	return member, ok
}

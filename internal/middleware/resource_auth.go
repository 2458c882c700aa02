package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/leocodeio/gitsprint-api/internal/errors"
	"github.com/leocodeio/gitsprint-api/internal/repository"
)

// Direct-resource routes carry no organization id in the path, so access is
// derived from the resource itself: resolve it, walk up to its organization
// and check membership there. Non-members get the same 404 as a missing
// resource so existence does not leak.

// RequireTeamAccess checks that the authenticated user is a member of the
// organization owning the team named in the route.
func RequireTeamAccess(teamRepo repository.TeamRepository, orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		team, err := teamRepo.FindByID(c.Param("team_id"))
		if err != nil {
			abortResourceLookup(c, err, "Team not found")
			return
		}
		requireMembership(c, orgRepo, team.OrgID, "Team not found")
	}
}

// RequireProjectAccess checks that the authenticated user is a member of the
// organization owning the project named in the route.
func RequireProjectAccess(projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projectRepo.FindByID(c.Param("project_id"))
		if err != nil {
			abortResourceLookup(c, err, "Project not found")
			return
		}
		requireMembership(c, orgRepo, project.OrgID, "Project not found")
	}
}

// RequireSprintAccess checks membership in the organization owning the
// sprint's project.
func RequireSprintAccess(projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sprint, err := projectRepo.FindSprintByID(c.Param("sprint_id"))
		if err != nil {
			abortResourceLookup(c, err, "Sprint not found")
			return
		}
		project, err := projectRepo.FindByID(sprint.ProjectID)
		if err != nil {
			abortResourceLookup(c, err, "Sprint not found")
			return
		}
		requireMembership(c, orgRepo, project.OrgID, "Sprint not found")
	}
}

// RequireStoryAccess checks membership in the organization owning the
// story's project.
func RequireStoryAccess(projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		story, err := projectRepo.FindStoryByID(c.Param("story_id"))
		if err != nil {
			abortResourceLookup(c, err, "Story not found")
			return
		}
		project, err := projectRepo.FindByID(story.ProjectID)
		if err != nil {
			abortResourceLookup(c, err, "Story not found")
			return
		}
		requireMembership(c, orgRepo, project.OrgID, "Story not found")
	}
}

// requireMembership resolves the caller's membership in the owning
// organization and stores it for downstream role checks.
func requireMembership(c *gin.Context, orgRepo repository.OrganizationRepository, orgID, notFoundMsg string) {
	userID, exists := GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		c.Abort()
		return
	}

	member, err := orgRepo.FindMember(orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, notFoundMsg)
		} else {
			apierrors.InternalError(c, "")
		}
		c.Abort()
		return
	}

	c.Set(contextKeyOrgMember, member)
	c.Next()
}

func abortResourceLookup(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.NotFound(c, notFoundMsg)
	} else {
		apierrors.InternalError(c, "")
	}
	c.Abort()
}

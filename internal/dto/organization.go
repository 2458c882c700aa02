package dto

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID string `json:"owner_id"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationMemberRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserDTO                       `json:"user"`
	Role     models.OrganizationMemberRole `json:"role"`
	JoinedAt time.Time                     `json:"joined_at"`
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	OrganizationDTO
	Members  []OrganizationMemberDTO       `json:"members"`
	YourRole models.OrganizationMemberRole `json:"your_role"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	OrgID       string  `json:"org_id"`
}

// TeamMemberDTO represents a member in a team
type TeamMemberDTO struct {
	User     UserDTO               `json:"user"`
	Role     models.TeamMemberRole `json:"role"`
	JoinedAt time.Time             `json:"joined_at"`
}

// TeamDetailDTO represents a team with its members
type TeamDetailDTO struct {
	TeamDTO
	Members []TeamMemberDTO `json:"members"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:      org.ID,
		Name:    org.Name,
		Slug:    org.Slug,
		OwnerID: org.OwnerID,
	}
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role
func ToOrganizationWithRoleDTO(member models.OrganizationMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		Role:            member.Role,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}
}

// ToOrganizationDetailDTO converts organization with members to detailed DTO
func ToOrganizationDetailDTO(org models.Organization, members []models.OrganizationMember, yourRole models.OrganizationMemberRole) OrganizationDetailDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToOrganizationMemberDTO(member)
	}

	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org),
		Members:         memberDTOs,
		YourRole:        yourRole,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		OrgID:       team.OrgID,
	}
}

// ToTeamDetailDTO converts a team with members to detailed DTO
func ToTeamDetailDTO(team models.Team, members []models.TeamMember) TeamDetailDTO {
	memberDTOs := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = TeamMemberDTO{
			User:     ToUserDTO(member.User),
			Role:     member.Role,
			JoinedAt: member.CreatedAt,
		}
	}

	return TeamDetailDTO{
		TeamDTO: ToTeamDTO(team),
		Members: memberDTOs,
	}
}

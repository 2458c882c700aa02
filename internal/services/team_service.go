package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrAlreadyTeamMember  = errors.New("user is already a team member")
	ErrTeamMemberNotFound = errors.New("team member not found")
)

// TeamService handles team and team membership business logic.
type TeamService struct {
	teamRepo repository.TeamRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

// CreateTeamInput holds the fields for creating a team.
type CreateTeamInput struct {
	OrgID       string
	Name        string
	Description *string
}

// CreateTeam creates a team inside an organization.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("team name is required")
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		OrgID:       input.OrgID,
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// ListTeams lists the teams of an organization.
func (s *TeamService) ListTeams(orgID string) ([]models.Team, error) {
	return s.teamRepo.ListByOrgID(orgID)
}

// GetTeam retrieves a team with its members.
func (s *TeamService) GetTeam(id string) (*models.Team, []models.TeamMember, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.teamRepo.ListMembers(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return team, members, nil
}

// UpdateTeam applies a patch.
func (s *TeamService) UpdateTeam(id string, patch domain.TeamPatch) (*models.Team, error) {
	if err := s.teamRepo.Patch(id, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// AddMember adds a user to the team with a role. The (team, user) pair is
// unique.
func (s *TeamService) AddMember(teamID, userID string, role models.TeamMemberRole) (*models.TeamMember, error) {
	if _, err := s.teamRepo.FindMember(teamID, userID); err == nil {
		return nil, ErrAlreadyTeamMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a user from the team.
func (s *TeamService) RemoveMember(teamID, userID string) error {
	if _, err := s.teamRepo.FindMember(teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to check team membership: %w", err)
	}
	return s.teamRepo.RemoveMember(teamID, userID)
}

package repository

import (
	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListByOrgID lists all teams of an organization
func (r *GormTeamRepository) ListByOrgID(orgID string) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Where("org_id = ?", orgID).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Patch applies a partial column update to a team
func (r *GormTeamRepository) Patch(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.Team{}).Where("id = ?", id).Updates(changes).Error
}

// AddMember adds a member to a team
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a team
func (r *GormTeamRepository) RemoveMember(teamID, userID string) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// FindMember finds a specific team member
func (r *GormTeamRepository) FindMember(teamID, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a team
func (r *GormTeamRepository) ListMembers(teamID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

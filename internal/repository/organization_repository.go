package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

var (
	// ErrCreateOrganization is returned when creating an organization fails
	// inside the creation transaction.
	ErrCreateOrganization = errors.New("organization repository: create organization failed")
	// ErrCreateOrganizationMember is returned when creating the owner
	// membership fails inside the creation transaction.
	ErrCreateOrganizationMember = errors.New("organization repository: create organization member failed")
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateWithOwner creates the organization and its OWNER membership atomically.
func (r *GormOrganizationRepository) CreateWithOwner(org *models.Organization, member *models.OrganizationMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		member.OrgID = org.ID
		member.UserID = org.OwnerID

		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganizationMember, err)
		}

		return nil
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindBySlug finds an organization by slug
func (r *GormOrganizationRepository) FindBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Patch applies a partial column update to an organization
func (r *GormOrganizationRepository) Patch(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.Organization{}).Where("id = ?", id).Updates(changes).Error
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(member *models.OrganizationMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(orgID, userID string) error {
	return r.db.Where("org_id = ? AND user_id = ?", orgID, userID).
		Delete(&models.OrganizationMember{}).Error
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(orgID, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(userID string) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(orgID string) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.Preload("User").
		Where("org_id = ?", orgID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

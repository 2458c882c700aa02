package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSlugTaken            = errors.New("organization slug already in use")
	ErrAlreadyMember        = errors.New("user is already a member")
	ErrMemberNotFound       = errors.New("member not found")
	ErrCannotRemoveOwner    = errors.New("organization owner cannot be removed")
	ErrFailedToCreateOrg    = errors.New("failed to create organization")
)

// OrganizationService handles organization and membership business logic.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganizationInput holds the fields for creating an organization.
type CreateOrganizationInput struct {
	Name    string
	OwnerID string
}

// CreateOrganization creates an organization owned by the given user, who
// also becomes its first OWNER member. The slug is derived from the name; a
// collision gets a random suffix.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}

	slug := utils.Slugify(name)
	if _, err := s.orgRepo.FindBySlug(slug); err == nil {
		suffixed, err := utils.SlugWithSuffix(name)
		if err != nil {
			return nil, ErrFailedToCreateOrg
		}
		slug = suffixed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	org := &models.Organization{
		Name:    name,
		Slug:    slug,
		OwnerID: input.OwnerID,
	}
	member := &models.OrganizationMember{
		Role: models.OrgRoleOwner,
	}

	if err := s.orgRepo.CreateWithOwner(org, member); err != nil {
		return nil, ErrFailedToCreateOrg
	}
	return org, nil
}

// ListOrganizations lists the organizations the user belongs to, with roles.
func (s *OrganizationService) ListOrganizations(userID string) ([]models.OrganizationMember, error) {
	return s.orgRepo.ListMembersByUserID(userID)
}

// GetOrganization retrieves an organization with its members.
func (s *OrganizationService) GetOrganization(id string) (*models.Organization, []models.OrganizationMember, error) {
	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrganizationNotFound
		}
		return nil, nil, fmt.Errorf("failed to find organization: %w", err)
	}

	members, err := s.orgRepo.ListMembers(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	return org, members, nil
}

// UpdateOrganization applies a patch. Ownership is not patchable.
func (s *OrganizationService) UpdateOrganization(id string, patch domain.OrganizationPatch) (*models.Organization, error) {
	if patch.Slug != nil {
		existing, err := s.orgRepo.FindBySlug(*patch.Slug)
		if err == nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
	}

	if err := s.orgRepo.Patch(id, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// AddMember adds a user to the organization with a role. The (org, user)
// pair is unique.
func (s *OrganizationService) AddMember(orgID, userID string, role models.OrganizationMemberRole) (*models.OrganizationMember, error) {
	if _, err := s.orgRepo.FindMember(orgID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.OrganizationMember{
		OrgID:  orgID,
		UserID: userID,
		Role:   role,
	}
	if err := s.orgRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a user from the organization. The owner stays.
func (s *OrganizationService) RemoveMember(orgID, userID string) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}
	if org.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.orgRepo.FindMember(orgID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	return s.orgRepo.RemoveMember(orgID, userID)
}

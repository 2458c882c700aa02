package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByProviderID finds a user by OAuth provider account id
func (r *GormUserRepository) FindByProviderID(provider, providerID string) (*models.User, error) {
	var user models.User
	var err error
	switch provider {
	case auth.ProviderGithub:
		err = r.db.Where("github_id = ?", providerID).First(&user).Error
	case auth.ProviderGoogle:
		err = r.db.Where("google_id = ?", providerID).First(&user).Error
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists the full user record
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Patch applies a partial column update to a user
func (r *GormUserRepository) Patch(id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(changes).Error
}

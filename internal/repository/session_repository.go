package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// FindByToken finds a session by its opaque token, with the user preloaded
func (r *GormSessionRepository) FindByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Preload("User").Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes a session by token
func (r *GormSessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpired removes every session past its expiry at the given instant
func (r *GormSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

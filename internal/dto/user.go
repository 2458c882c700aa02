package dto

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	EmailVerified    bool    `json:"email_verified"`
	Image            *string `json:"image,omitempty"`
	Role             string  `json:"role"`
	Phone            *string `json:"phone,omitempty"`
	PhoneVerified    bool    `json:"phone_verified"`
	ProfileCompleted bool    `json:"profile_completed"`
	SubscriptionID   *string `json:"subscription_id,omitempty"`
}

// SessionDTO represents a session in API responses. The token itself is only
// returned at issuance.
type SessionDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is the get-session payload.
type SessionResponse struct {
	Session SessionDTO `json:"session"`
	User    UserDTO    `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		EmailVerified:    user.EmailVerified,
		Image:            user.Image,
		Role:             user.Role,
		Phone:            user.Phone,
		PhoneVerified:    user.PhoneVerified,
		ProfileCompleted: user.ProfileCompleted,
		SubscriptionID:   user.SubscriptionID,
	}
}

// ToSessionDTO converts a Session model to SessionDTO
func ToSessionDTO(session models.Session) SessionDTO {
	return SessionDTO{
		ID:        session.ID,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
}

// ToSessionResponse builds the get-session payload.
func ToSessionResponse(session models.Session, user models.User) SessionResponse {
	return SessionResponse{
		Session: ToSessionDTO(session),
		User:    ToUserDTO(user),
	}
}

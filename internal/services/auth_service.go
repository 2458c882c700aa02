package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/constants"
	"github.com/leocodeio/gitsprint-api/internal/domain"
	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailNotVerified      = errors.New("provider email not verified")
	ErrSessionExpired        = errors.New("session expired")
	ErrFailedToCreateUser    = errors.New("failed to create user")
	ErrFailedToCreateSession = errors.New("failed to create session")
)

// AuthService mediates OAuth sign-in, session issuance and resolution. One
// instance is built at startup from the deploy-time Options and injected
// into handlers and middleware.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	opts        auth.Options

	// now is swappable for tests.
	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, opts auth.Options) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		opts:        opts,
		now:         time.Now,
	}
}

// Options exposes the deploy-time configuration of this instance.
func (s *AuthService) Options() auth.Options {
	return s.opts
}

// SetClock overrides the time source (used for testing).
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// SignInWithProfile upserts a user from a provider profile. The first
// successful OAuth sign-in creates the record (role defaults to "user",
// profile not yet completed); later sign-ins only refresh name, image and
// the provider link. Returns the user and whether it was just created.
func (s *AuthService) SignInWithProfile(profile *auth.Profile) (*models.User, bool, error) {
	user, err := s.userRepo.FindByProviderID(profile.Provider, profile.ProviderID)
	if err == nil {
		if err := s.userRepo.Patch(user.ID, refreshChanges(profile)); err != nil {
			return nil, false, fmt.Errorf("failed to refresh user: %w", err)
		}
		user, err = s.userRepo.FindByID(user.ID)
		return user, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up provider account: %w", err)
	}

	// Same email from another provider links to the existing account, but
	// only when the provider vouches for that email. An unverified match
	// must not be merged into someone else's account.
	user, err = s.userRepo.FindByEmail(profile.Email)
	if err == nil {
		if !profile.EmailVerified {
			return nil, false, ErrEmailNotVerified
		}
		changes := refreshChanges(profile)
		applyProviderLink(changes, profile)
		if err := s.userRepo.Patch(user.ID, changes); err != nil {
			return nil, false, fmt.Errorf("failed to link provider account: %w", err)
		}
		user, err = s.userRepo.FindByID(user.ID)
		return user, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up user by email: %w", err)
	}

	user = &models.User{
		Name:             profile.Name,
		Email:            profile.Email,
		EmailVerified:    profile.EmailVerified,
		Image:            profile.Image,
		Role:             models.DefaultUserRole,
		ProfileCompleted: false,
	}
	switch profile.Provider {
	case auth.ProviderGithub:
		user.GithubID = &profile.ProviderID
		user.GithubUsername = profile.Username
	case auth.ProviderGoogle:
		user.GoogleID = &profile.ProviderID
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, false, ErrFailedToCreateUser
	}
	return user, true, nil
}

func refreshChanges(profile *auth.Profile) map[string]interface{} {
	changes := map[string]interface{}{}
	if profile.Name != "" {
		changes["name"] = profile.Name
	}
	if profile.Image != nil {
		changes["image"] = *profile.Image
	}
	return changes
}

func applyProviderLink(changes map[string]interface{}, profile *auth.Profile) {
	switch profile.Provider {
	case auth.ProviderGithub:
		changes["github_id"] = profile.ProviderID
		if profile.Username != nil {
			changes["github_username"] = *profile.Username
		}
	case auth.ProviderGoogle:
		changes["google_id"] = profile.ProviderID
	}
}

// CreateSession issues a new session for the user.
func (s *AuthService) CreateSession(userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, ErrFailedToCreateSession
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionExpiresIn),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, ErrFailedToCreateSession
	}
	return session, nil
}

// ResolveSession looks up a session by token. Expired sessions resolve to
// ErrSessionExpired; removal is left to the purge job so resolution stays
// side-effect free.
func (s *AuthService) ResolveSession(token string) (*models.Session, error) {
	session, err := s.sessionRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// SessionFromRequest resolves the inbound request's credentials, checking
// the session cookie first, then the Authorization header when bearer
// support is enabled. A nil session with a nil error means "no valid
// session".
func (s *AuthService) SessionFromRequest(r *http.Request) (*models.Session, error) {
	token := ""
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		token = cookie.Value
	} else if s.opts.Bearer {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		return nil, nil
	}

	session, err := s.ResolveSession(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrSessionExpired) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// SignOut invalidates the session behind the token.
func (s *AuthService) SignOut(token string) error {
	return s.sessionRepo.DeleteByToken(token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CompleteProfileInput carries the onboarding fields.
type CompleteProfileInput struct {
	Name  *string
	Phone *string
}

// CompleteProfile finishes onboarding. Identity fields (id, email) are never
// touched.
func (s *AuthService) CompleteProfile(userID string, input CompleteProfileInput) (*models.User, error) {
	completed := true
	patch := domain.UserPatch{
		Name:             input.Name,
		Phone:            input.Phone,
		ProfileCompleted: &completed,
	}
	if err := s.userRepo.Patch(userID, patch.Changes()); err != nil {
		return nil, fmt.Errorf("failed to complete profile: %w", err)
	}
	return s.GetUser(userID)
}

// PurgeExpiredSessions removes sessions past their expiry. Run periodically.
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	return s.sessionRepo.DeleteExpired(s.now())
}

package repository

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/models"
	"github.com/leocodeio/gitsprint-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByProviderID finds a user by OAuth provider account id
	FindByProviderID(provider, providerID string) (*models.User, error)

	// Update persists the full user record
	Update(user *models.User) error

	// Patch applies a partial column update to a user
	Patch(id string, changes map[string]interface{}) error
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(session *models.Session) error

	// FindByToken finds a session by its opaque token, with the user preloaded
	FindByToken(token string) (*models.Session, error)

	// DeleteByToken removes a session by token
	DeleteByToken(token string) error

	// DeleteExpired removes every session past its expiry at the given instant
	DeleteExpired(now time.Time) (int64, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// CreateWithOwner creates the organization and its OWNER membership
	// within a single transaction.
	CreateWithOwner(org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds an organization by ID
	FindByID(id string) (*models.Organization, error)

	// FindBySlug finds an organization by slug
	FindBySlug(slug string) (*models.Organization, error)

	// Patch applies a partial column update to an organization
	Patch(id string, changes map[string]interface{}) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(orgID, userID string) error

	// FindMember finds a specific organization member
	FindMember(orgID, userID string) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID string) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(orgID string) ([]models.OrganizationMember, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(team *models.Team) error
	FindByID(id string) (*models.Team, error)
	ListByOrgID(orgID string) ([]models.Team, error)
	Patch(id string, changes map[string]interface{}) error
	AddMember(member *models.TeamMember) error
	RemoveMember(teamID, userID string) error
	FindMember(teamID, userID string) (*models.TeamMember, error)
	ListMembers(teamID string) ([]models.TeamMember, error)
}

// ProjectRepository defines the interface for project, sprint and story data
// access. Sprints and stories never leave their project aggregate.
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id string) (*models.Project, error)
	ListByOrgID(orgID string) ([]models.Project, error)
	Patch(id string, changes map[string]interface{}) error

	// AttachRepository links GitHub repository metadata to a project,
	// replacing a previous link if present.
	AttachRepository(repo *models.GithubRepository) error

	CreateSprint(sprint *models.Sprint) error
	FindSprintByID(id string) (*models.Sprint, error)
	ListSprintsByProject(projectID string) ([]models.Sprint, error)
	PatchSprint(id string, changes map[string]interface{}) error

	CreateStory(story *models.Story) error
	FindStoryByID(id string) (*models.Story, error)
	ListStoriesBySprint(sprintID string, params utils.PaginationParams) ([]models.Story, int64, error)
	PatchStory(id string, changes map[string]interface{}) error
}

// BillingRepository defines the interface for billing data access. Webhook
// processing runs inside Transaction so event bookkeeping and state changes
// commit together.
type BillingRepository interface {
	Transaction(fn func(BillingRepository) error) error

	FindEvent(id string) (*models.WebhookEvent, error)
	CreateEvent(event *models.WebhookEvent) error

	FindSubscription(id string) (*models.Subscription, error)
	SaveSubscription(sub *models.Subscription) error

	FindOrder(id string) (*models.Order, error)
	SaveOrder(order *models.Order) error

	// SetUserSubscription links or clears the subscription reference on a user
	SetUserSubscription(userID string, subscriptionID *string) error
}

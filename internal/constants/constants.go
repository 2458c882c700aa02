package constants

// Session and context keys
const (
	// CookiePrefix namespaces every cookie issued by the auth service.
	CookiePrefix = "gitsprint"

	// SessionCookieName carries the opaque session token.
	SessionCookieName = CookiePrefix + ".session_token"

	// FlowCookieName carries short-lived OAuth flow state between the
	// sign-in redirect and the provider callback.
	FlowCookieName = CookiePrefix + ".oauth_flow"

	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	// ContextKeyUser is the gin context key holding the resolved user record.
	ContextKeyUser = "user"

	// ContextKeySession is the gin context key holding the resolved session.
	ContextKeySession = "session"
)

// Default redirect targets for the OAuth flow.
const (
	DefaultCallbackURL = "/feature/dashboard"
	ErrorCallbackURL   = "/auth/signin"
	NewUserCallbackURL = "/feature/onboarding"
)

// CheckoutSuccessPath is the landing path after a completed checkout. The
// {CHECKOUT_ID} placeholder is substituted by the payments provider.
const CheckoutSuccessPath = "/api/payments/success?checkout_id={CHECKOUT_ID}"

// SwaggerRealm is the basic-auth realm challenged on the reference route.
const SwaggerRealm = "Swagger Docs"

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

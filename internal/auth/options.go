// Package auth holds the configuration surface of the session/auth service:
// trusted origins, OAuth provider registry, cookie policy and the fixed set
// of capabilities (bearer tokens, OpenAPI reference, Polar billing). The
// capability set is fixed at deploy time, so it is an explicit struct rather
// than a plugin list.
package auth

import (
	"time"

	"github.com/leocodeio/gitsprint-api/internal/config"
	"github.com/leocodeio/gitsprint-api/internal/constants"
)

// Product is one entry of the checkout catalog.
type Product struct {
	ProductID string
	Slug      string
}

// CheckoutOptions configures the hosted checkout capability.
type CheckoutOptions struct {
	Products               []Product
	SuccessURL             string
	AuthenticatedUsersOnly bool
}

// PolarOptions bundles the billing sub-capabilities.
type PolarOptions struct {
	Enabled       bool
	WebhookSecret string
	Checkout      CheckoutOptions
	Portal        bool
	Usage         bool
}

// Options is the full configuration of the auth service instance. One value
// is built at startup and injected everywhere it is needed.
type Options struct {
	// TrustedOrigins holds exactly the app and API base URLs.
	TrustedOrigins []string

	CookiePrefix     string
	SessionExpiresIn time.Duration
	SecureCookies    bool

	// Bearer allows session tokens in the Authorization header.
	Bearer bool
	// OpenAPIReference exposes the introspection document on the reference
	// route (behind basic auth).
	OpenAPIReference bool

	Polar PolarOptions
}

// OptionsFromConfig assembles the deploy-time capability set.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TrustedOrigins:   []string{cfg.AppBaseURL, cfg.APIBaseURL},
		CookiePrefix:     constants.CookiePrefix,
		SessionExpiresIn: time.Duration(cfg.SessionExpiresIn) * time.Second,
		SecureCookies:    cfg.IsProduction(),
		Bearer:           true,
		OpenAPIReference: true,
		Polar: PolarOptions{
			Enabled:       cfg.PolarAccessToken != "",
			WebhookSecret: cfg.PolarWebhookSecret,
			Checkout: CheckoutOptions{
				Products: []Product{
					{ProductID: "d6fd3bbd-8fae-4302-b4a6-240497c03626", Slug: "benificial"},
				},
				SuccessURL:             constants.CheckoutSuccessPath,
				AuthenticatedUsersOnly: true,
			},
			Portal: true,
			Usage:  true,
		},
	}
}

// ProductBySlug resolves a catalog entry.
func (o Options) ProductBySlug(slug string) (Product, bool) {
	for _, p := range o.Polar.Checkout.Products {
		if p.Slug == slug {
			return p, true
		}
	}
	return Product{}, false
}

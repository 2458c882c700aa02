package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/leocodeio/gitsprint-api/internal/config"
)

const (
	ProviderGithub = "github"
	ProviderGoogle = "google"
)

// GithubScopes and GoogleScopes are the fixed scope lists requested from the
// providers.
var (
	GithubScopes = []string{"user:email", "read:user", "repo"}
	GoogleScopes = []string{"openid", "email", "profile"}
)

// Profile is the normalized identity returned by a provider after the code
// exchange.
type Profile struct {
	Provider      string
	ProviderID    string
	Name          string
	Email         string
	EmailVerified bool
	Image         *string
	Username      *string
}

// Provider wraps one OAuth integration.
type Provider interface {
	Name() string
	Config() *oauth2.Config
	// Profile fetches the user identity with the exchanged token.
	Profile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Providers builds the provider registry from configured credentials. The
// callback URL is derived from the API base, one route per provider.
func Providers(cfg *config.Config) map[string]Provider {
	registry := map[string]Provider{}

	if cfg.GithubClientID != "" {
		registry[ProviderGithub] = &githubProvider{cfg: &oauth2.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  cfg.APIBaseURL + "/api/auth/callback/" + ProviderGithub,
			Scopes:       GithubScopes,
		}}
	}

	if cfg.GoogleClientID != "" {
		registry[ProviderGoogle] = &googleProvider{cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.APIBaseURL + "/api/auth/callback/" + ProviderGoogle,
			Scopes:       GoogleScopes,
		}}
	}

	return registry
}

type githubProvider struct {
	cfg *oauth2.Config
}

func (p *githubProvider) Name() string           { return ProviderGithub }
func (p *githubProvider) Config() *oauth2.Config { return p.cfg }

func (p *githubProvider) Profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.cfg.Client(ctx, token)

	var ghUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, "https://api.github.com/user", &ghUser); err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	email := ghUser.Email
	verified := false
	if email == "" {
		// The public email may be hidden; the user:email scope exposes the
		// full list.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, fmt.Errorf("failed to fetch github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				verified = e.Verified
				break
			}
		}
	} else {
		// A visible public email on GitHub is always a verified one.
		verified = true
	}
	if email == "" {
		return nil, fmt.Errorf("github account has no usable email")
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	profile := &Profile{
		Provider:      ProviderGithub,
		ProviderID:    strconv.FormatInt(ghUser.ID, 10),
		Name:          name,
		Email:         email,
		EmailVerified: verified,
		Username:      &ghUser.Login,
	}
	if ghUser.AvatarURL != "" {
		profile.Image = &ghUser.AvatarURL
	}
	return profile, nil
}

type googleProvider struct {
	cfg *oauth2.Config
}

func (p *googleProvider) Name() string           { return ProviderGoogle }
func (p *googleProvider) Config() *oauth2.Config { return p.cfg }

func (p *googleProvider) Profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.cfg.Client(ctx, token)

	var gUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(client, "https://www.googleapis.com/oauth2/v2/userinfo", &gUser); err != nil {
		return nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	if gUser.Email == "" {
		return nil, fmt.Errorf("google account has no usable email")
	}

	profile := &Profile{
		Provider:      ProviderGoogle,
		ProviderID:    gUser.ID,
		Name:          gUser.Name,
		Email:         gUser.Email,
		EmailVerified: gUser.VerifiedEmail,
	}
	if gUser.Picture != "" {
		profile.Image = &gUser.Picture
	}
	return profile, nil
}

func getJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

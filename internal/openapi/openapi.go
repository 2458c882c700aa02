// Package openapi builds the introspection document served on the reference
// route.
package openapi

import (
	"gopkg.in/yaml.v3"
)

type Document struct {
	OpenAPI string          `json:"openapi" yaml:"openapi"`
	Info    Info            `json:"info" yaml:"info"`
	Servers []Server        `json:"servers" yaml:"servers"`
	Paths   map[string]Path `json:"paths" yaml:"paths"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
}

type Server struct {
	URL string `json:"url" yaml:"url"`
}

type Path map[string]Operation

type Operation struct {
	Summary   string   `json:"summary" yaml:"summary"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Responses map[string]Response `json:"responses" yaml:"responses"`
}

type Response struct {
	Description string `json:"description" yaml:"description"`
}

// BuildDocument describes the authentication and billing surface.
func BuildDocument(apiBaseURL string) Document {
	ok := map[string]Response{"200": {Description: "OK"}}
	redirect := map[string]Response{"302": {Description: "Redirect"}}

	return Document{
		OpenAPI: "3.1.0",
		Info: Info{
			Title:       "GitSprint Auth API",
			Description: "OAuth sign-in, sessions and billing endpoints",
			Version:     "1.0.0",
		},
		Servers: []Server{{URL: apiBaseURL}},
		Paths: map[string]Path{
			"/api/auth/signin/{provider}": {
				"get": Operation{Summary: "Start an OAuth sign-in flow", Tags: []string{"auth"}, Responses: redirect},
			},
			"/api/auth/callback/{provider}": {
				"get": Operation{Summary: "OAuth provider callback", Tags: []string{"auth"}, Responses: redirect},
			},
			"/api/auth/get-session": {
				"get": Operation{Summary: "Resolve the current session", Tags: []string{"auth"}, Responses: ok},
			},
			"/api/auth/sign-out": {
				"post": Operation{Summary: "Invalidate the current session", Tags: []string{"auth"}, Responses: ok},
			},
			"/api/auth/complete-profile": {
				"post": Operation{Summary: "Finish onboarding", Tags: []string{"auth"}, Responses: ok},
			},
			"/api/auth/checkout/{slug}": {
				"get": Operation{Summary: "Open a hosted checkout session", Tags: []string{"billing"}, Responses: redirect},
			},
			"/api/auth/portal": {
				"get": Operation{Summary: "Open the customer portal", Tags: []string{"billing"}, Responses: redirect},
			},
			"/api/auth/polar/webhooks": {
				"post": Operation{Summary: "Payments provider webhook sink", Tags: []string{"billing"}, Responses: ok},
			},
		},
	}
}

// ToYAML renders the document as YAML.
func (d Document) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// Package domain re-exports the persistence record types under stable names
// and defines partial patch views over them. Patch views carry only the
// fields an update supplies; Changes() feeds gorm's column-map update path so
// zero values and omitted fields stay distinguishable.
package domain

import "github.com/leocodeio/gitsprint-api/internal/models"

// Record aliases

type User = models.User
type Session = models.Session
type Organization = models.Organization
type OrganizationMember = models.OrganizationMember
type Team = models.Team
type TeamMember = models.TeamMember
type Project = models.Project
type Sprint = models.Sprint
type Story = models.Story
type GithubRepository = models.GithubRepository
type Subscription = models.Subscription
type Order = models.Order

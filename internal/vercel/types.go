// Package vercel is a client for the local /api/vercel proxy that lists
// teams, projects and environment variables and creates environment
// variables, plus a Store that caches the last good results.
package vercel

import (
	"errors"
	"fmt"
	"regexp"
)

// Env variable types.
const (
	EnvPlain     = "plain"
	EnvEncrypted = "encrypted"
	EnvSecret    = "secret"
	EnvSensitive = "sensitive"
)

// Deployment targets.
const (
	TargetProduction  = "production"
	TargetPreview     = "preview"
	TargetDevelopment = "development"
)

// AllTargets is the default target set for a new variable.
var AllTargets = []string{TargetProduction, TargetPreview, TargetDevelopment}

// EnvKeyPattern matches a valid variable key.
var EnvKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidEnvKey reports whether key can name an environment variable.
func ValidEnvKey(key string) bool { return EnvKeyPattern.MatchString(key) }

// Team is a Vercel team.
type Team struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Project is a Vercel project.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Framework string `json:"framework,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// EnvVar is a project environment variable.
type EnvVar struct {
	ID        string   `json:"id"`
	Key       string   `json:"key"`
	Value     string   `json:"value,omitempty"`
	Type      string   `json:"type"`
	Target    []string `json:"target"`
	CreatedAt int64    `json:"createdAt,omitempty"`
}

// CreateEnvRequest is the POST body for creating a variable. Type and Target
// are optional; the server applies defaults.
type CreateEnvRequest struct {
	Key    string   `json:"key"`
	Value  string   `json:"value"`
	Type   string   `json:"type,omitempty"`
	Target []string `json:"target,omitempty"`
}

// APIError is a non-2xx response. Message is the body's "error" field when
// present, otherwise "HTTP <status>".
type APIError struct {
	Action  string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func httpMessage(status int) string {
	return fmt.Sprintf("HTTP %d", status)
}

// Package proxy serves a local stand-in for the /api/vercel route backed by
// in-memory mock data.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"demodeck/internal/vercel"

	"github.com/google/uuid"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingProject  = errors.New("projectId is required")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidEnv      = errors.New("invalid environment variable")
	ErrDuplicateEnv    = errors.New("environment variable already exists")
)

// Backend answers the proxy's actions.
type Backend interface {
	Teams(ctx context.Context) ([]vercel.Team, error)
	Projects(ctx context.Context, teamID string) ([]vercel.Project, error)
	Project(ctx context.Context, projectID string) (vercel.Project, error)
	Envs(ctx context.Context, projectID string) ([]vercel.EnvVar, error)
	CreateEnv(ctx context.Context, projectID string, req vercel.CreateEnvRequest) (vercel.EnvVar, error)
}

// MemoryBackend keeps teams, projects and variables in memory. Safe for
// concurrent use.
type MemoryBackend struct {
	mu       sync.RWMutex
	teams    []vercel.Team
	projects []vercel.Project
	envs     map[string][]vercel.EnvVar
	now      func() time.Time
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns a backend seeded with demo data.
func NewMemoryBackend() *MemoryBackend {
	b := &MemoryBackend{
		envs: make(map[string][]vercel.EnvVar),
		now:  time.Now,
	}
	b.seed()
	return b
}

func (b *MemoryBackend) seed() {
	created := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC).UnixMilli()
	b.teams = []vercel.Team{
		{ID: "team_acme", Slug: "acme", Name: "Acme Inc"},
		{ID: "team_labs", Slug: "labs", Name: "Acme Labs"},
	}
	b.projects = []vercel.Project{
		{ID: "prj_storefront", Name: "storefront", Framework: "nextjs", TeamID: "team_acme", UpdatedAt: created},
		{ID: "prj_analytics", Name: "analytics-dashboard", Framework: "nextjs", TeamID: "team_acme", UpdatedAt: created},
		{ID: "prj_video", Name: "video-portal", Framework: "remix", TeamID: "team_labs", UpdatedAt: created},
	}
	b.envs["prj_storefront"] = []vercel.EnvVar{
		{ID: "env_1", Key: "NEXT_PUBLIC_API_URL", Value: "https://api.acme.test", Type: vercel.EnvPlain, Target: slices.Clone(vercel.AllTargets), CreatedAt: created},
		{ID: "env_2", Key: "STRIPE_SECRET_KEY", Value: "sk_test_123", Type: vercel.EnvEncrypted, Target: []string{vercel.TargetProduction}, CreatedAt: created},
	}
	b.envs["prj_analytics"] = []vercel.EnvVar{
		{ID: "env_3", Key: "DATABASE_URL", Value: "postgres://analytics", Type: vercel.EnvSecret, Target: []string{vercel.TargetProduction, vercel.TargetPreview}, CreatedAt: created},
	}
}

// Teams implements Backend.
func (b *MemoryBackend) Teams(context.Context) ([]vercel.Team, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.teams), nil
}

// Projects implements Backend. An empty teamID lists every project.
func (b *MemoryBackend) Projects(_ context.Context, teamID string) ([]vercel.Project, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]vercel.Project, 0, len(b.projects))
	for _, p := range b.projects {
		if teamID == "" || p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Project implements Backend.
func (b *MemoryBackend) Project(_ context.Context, projectID string) (vercel.Project, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.findLocked(projectID)
	if !ok {
		return vercel.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	return p, nil
}

// Envs implements Backend. Values of non-plain variables are masked.
func (b *MemoryBackend) Envs(_ context.Context, projectID string) ([]vercel.EnvVar, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.findLocked(projectID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	envs := b.envs[projectID]
	out := make([]vercel.EnvVar, len(envs))
	for i, ev := range envs {
		out[i] = masked(ev)
	}
	return out, nil
}

// CreateEnv implements Backend. Type defaults to encrypted and Target to
// every environment. A key may appear once per target.
func (b *MemoryBackend) CreateEnv(_ context.Context, projectID string, req vercel.CreateEnvRequest) (vercel.EnvVar, error) {
	ev, err := normalize(req)
	if err != nil {
		return vercel.EnvVar{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.findLocked(projectID); !ok {
		return vercel.EnvVar{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	for _, existing := range b.envs[projectID] {
		if existing.Key != ev.Key {
			continue
		}
		for _, t := range ev.Target {
			if slices.Contains(existing.Target, t) {
				return vercel.EnvVar{}, fmt.Errorf("%w: %s (%s)", ErrDuplicateEnv, ev.Key, t)
			}
		}
	}
	ev.ID = "env_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ev.CreatedAt = b.now().UnixMilli()
	b.envs[projectID] = append(b.envs[projectID], ev)
	return masked(ev), nil
}

func (b *MemoryBackend) findLocked(projectID string) (vercel.Project, bool) {
	for _, p := range b.projects {
		if p.ID == projectID {
			return p, true
		}
	}
	return vercel.Project{}, false
}

func normalize(req vercel.CreateEnvRequest) (vercel.EnvVar, error) {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return vercel.EnvVar{}, fmt.Errorf("%w: key is required", ErrInvalidEnv)
	}
	if !vercel.ValidEnvKey(key) {
		return vercel.EnvVar{}, fmt.Errorf("%w: key %q must be letters, digits and underscores", ErrInvalidEnv, key)
	}
	if req.Value == "" {
		return vercel.EnvVar{}, fmt.Errorf("%w: value is required", ErrInvalidEnv)
	}

	typ := req.Type
	switch typ {
	case "":
		typ = vercel.EnvEncrypted
	case vercel.EnvPlain, vercel.EnvEncrypted, vercel.EnvSecret, vercel.EnvSensitive:
	default:
		return vercel.EnvVar{}, fmt.Errorf("%w: unknown type %q", ErrInvalidEnv, typ)
	}

	target := req.Target
	if len(target) == 0 {
		target = vercel.AllTargets
	}
	for _, t := range target {
		if !slices.Contains(vercel.AllTargets, t) {
			return vercel.EnvVar{}, fmt.Errorf("%w: unknown target %q", ErrInvalidEnv, t)
		}
	}

	return vercel.EnvVar{
		Key:    key,
		Value:  req.Value,
		Type:   typ,
		Target: slices.Clone(target),
	}, nil
}

func masked(ev vercel.EnvVar) vercel.EnvVar {
	if ev.Type != vercel.EnvPlain {
		ev.Value = ""
	}
	ev.Target = slices.Clone(ev.Target)
	return ev
}

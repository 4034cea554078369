package vercel

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Snapshot is a copy of the Store's slots.
type Snapshot struct {
	Teams      []Team
	Projects   []Project
	Project    *Project
	EnvProject string
	Envs       []EnvVar
	Loading    bool
	Err        error
}

// Store keeps the last successfully loaded data together with loading and
// error flags. Each call clears Err when it starts; a failed call records Err
// and leaves earlier data in place, so a concurrent success cannot hide it.
// Safe for concurrent use.
type Store struct {
	api    API
	logger *slog.Logger

	mu         sync.Mutex
	teams      []Team
	projects   []Project
	project    *Project
	envProject string
	envs       []EnvVar
	inflight   int
	err        error
}

// NewStore wraps api. A nil logger uses slog.Default().
func NewStore(api API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: api, logger: logger}
}

// Snapshot returns a copy of the current slots.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Teams:      slices.Clone(s.teams),
		Projects:   slices.Clone(s.projects),
		EnvProject: s.envProject,
		Envs:       slices.Clone(s.envs),
		Loading:    s.inflight > 0,
		Err:        s.err,
	}
	if s.project != nil {
		p := *s.project
		snap.Project = &p
	}
	return snap
}

// LoadTeams refreshes the team list.
func (s *Store) LoadTeams(ctx context.Context) error {
	return s.run("list teams", func() error {
		teams, err := s.api.ListTeams(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.teams = teams
		s.mu.Unlock()
		return nil
	})
}

// LoadProjects refreshes the project list for teamID ("" for all).
func (s *Store) LoadProjects(ctx context.Context, teamID string) error {
	return s.run("list projects", func() error {
		projects, err := s.api.ListProjects(ctx, teamID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.projects = projects
		s.mu.Unlock()
		return nil
	})
}

// LoadProject refreshes the selected project.
func (s *Store) LoadProject(ctx context.Context, projectID string) error {
	return s.run("get project", func() error {
		p, err := s.api.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.project = &p
		s.mu.Unlock()
		return nil
	})
}

// LoadEnv refreshes the environment variables of projectID.
func (s *Store) LoadEnv(ctx context.Context, projectID string) error {
	return s.run("list env", func() error {
		envs, err := s.api.ListEnv(ctx, projectID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.envProject = projectID
		s.envs = envs
		s.mu.Unlock()
		return nil
	})
}

// CreateEnv creates a variable and, when projectID's variables are cached,
// appends it to them.
func (s *Store) CreateEnv(ctx context.Context, projectID string, req CreateEnvRequest) (EnvVar, error) {
	var created EnvVar
	err := s.run("create env", func() error {
		ev, err := s.api.CreateEnv(ctx, projectID, req)
		if err != nil {
			return err
		}
		created = ev
		s.mu.Lock()
		if s.envProject == projectID {
			s.envs = append(s.envs, ev)
		}
		s.mu.Unlock()
		return nil
	})
	return created, err
}

// ClearError resets the error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) run(op string, fn func() error) error {
	s.mu.Lock()
	s.inflight++
	s.err = nil
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.err = err
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("vercel request failed", "op", op, "status", StatusOf(err), "error", err)
		return err
	}
	s.logger.Debug("vercel request ok", "op", op)
	return nil
}

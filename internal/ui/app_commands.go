package ui

import (
	"context"
	"time"

	"demodeck/internal/progress"
	"demodeck/internal/vercel"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds each store call started from the UI.
const requestTimeout = 15 * time.Second

// waitForProgress reads one simulator event. The caller re-arms it after
// every event; a closed channel ends the loop.
func waitForProgress(ch <-chan progress.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

func storeCmd(op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return StoreLoadedMsg{Op: op, Err: fn(ctx)}
	}
}

// loadOverviewCmd loads teams and every project in parallel.
func loadOverviewCmd(s *vercel.Store) tea.Cmd {
	if s == nil {
		return nil
	}
	return tea.Batch(
		storeCmd("list teams", s.LoadTeams),
		storeCmd("list projects", func(ctx context.Context) error {
			return s.LoadProjects(ctx, "")
		}),
	)
}

// loadProjectCmd loads a project's detail and variables in parallel.
func loadProjectCmd(s *vercel.Store, projectID string) tea.Cmd {
	if s == nil || projectID == "" {
		return nil
	}
	return tea.Batch(
		storeCmd("get project", func(ctx context.Context) error {
			return s.LoadProject(ctx, projectID)
		}),
		storeCmd("list env", func(ctx context.Context) error {
			return s.LoadEnv(ctx, projectID)
		}),
	)
}

func createEnvCmd(s *vercel.Store, projectID string, req vercel.CreateEnvRequest) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ev, err := s.CreateEnv(ctx, projectID, req)
		return EnvCreatedMsg{ProjectID: projectID, Env: ev, Err: err}
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"demodeck/internal/logging"
	"demodeck/internal/metrics"
	"demodeck/internal/modal"
	"demodeck/internal/progress"
	"demodeck/internal/proxy"
	"demodeck/internal/session"
	"demodeck/internal/telemetry"
	"demodeck/internal/ui"
	"demodeck/internal/vercel"

	tea "github.com/charmbracelet/bubbletea"
)

// TUICmd runs the Bubble Tea program.
type TUICmd struct {
	Local   bool   `help:"Start the mock proxy in-process and point the client at it"`
	LogFile string `name:"log-file" help:"Log destination while the UI owns the terminal (overrides log.file)"`
	NoAPI   bool   `name:"no-api" help:"Skip all API calls; the deployments page stays empty"`
}

func (t *TUICmd) Run(g *Globals) error {
	cfg := g.Config
	logPath := cfg.Log.File
	if t.LogFile != "" {
		logPath = t.LogFile
	}
	logger, closer, err := logging.ToFile(logPath, g.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	m := metrics.New(true)
	events := make(chan progress.Event, 256)
	sess := session.New(ctx,
		session.WithInterval(cfg.Progress.Interval),
		session.WithStepRange(cfg.Progress.MinStep, cfg.Progress.MaxStep),
		session.WithEmitter(progress.MultiEmitter{
			m.ProgressEmitter(),
			&progress.ChanEmitter{Ch: events},
		}),
		session.WithDispatcher(modal.NewDispatcher(modal.WithOpenHook(m.ObserveModal))),
		session.WithLogger(logger),
	)
	defer sess.Wait()

	var store *vercel.Store
	if !t.NoAPI {
		baseURL := cfg.API.BaseURL
		if t.Local {
			srv, err := startProxy(cfg.Server.Addr, m, logger)
			if err != nil {
				return fmt.Errorf("start local proxy: %w", err)
			}
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				_ = srv.Stop(sctx)
			}()
			baseURL = "http://" + srv.Addr()
		}
		client, err := vercel.NewClient(baseURL, vercel.WithTimeout(cfg.API.Timeout))
		if err != nil {
			return err
		}
		store = vercel.NewStore(client, logger)
	}

	model := ui.NewAppModel(sess, store, events).WithLogger(logger)
	p := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	logger.Info("tui starting", "api", store != nil, "local", t.Local)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	cancel()
	return nil
}

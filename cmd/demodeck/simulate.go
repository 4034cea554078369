package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"demodeck/internal/progress"
	"demodeck/internal/session"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/jonboulle/clockwork"
)

// SimulateCmd runs one simulator headless and prints each event, then the
// modal the UI would have shown.
type SimulateCmd struct {
	Transfer    string        `arg:"" enum:"upload,download,export" help:"Transfer to run (upload, download, export)"`
	Step        float64       `help:"Fixed step per tick; 0 draws from progress.min_step..max_step"`
	Interval    time.Duration `help:"Tick interval (overrides progress.interval)"`
	CancelAfter time.Duration `name:"cancel-after" help:"Cancel the run after this long"`
	Range       string        `help:"Analytics range used by the export report" enum:"7d,30d,90d" default:"30d"`
}

func (s *SimulateCmd) Run(g *Globals) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clock := clockwork.NewRealClock()
	interval := g.Config.Progress.Interval
	if s.Interval > 0 {
		interval = s.Interval
	}

	events := make(chan progress.Event, 64)
	opts := []session.Option{
		session.WithClock(clock),
		session.WithInterval(interval),
		session.WithEmitter(&progress.ChanEmitter{Ch: events}),
		session.WithLogger(g.Logger),
	}
	if s.Step > 0 {
		opts = append(opts, session.WithStepper(progress.FixedStep(s.Step)))
	} else {
		opts = append(opts, session.WithStepRange(g.Config.Progress.MinStep, g.Config.Progress.MaxStep))
	}
	sess := session.New(ctx, opts...)
	defer sess.Wait()
	sess.SetRange(s.Range)

	if _, err := sess.StartTransfer(s.Transfer); err != nil {
		return err
	}

	var cancelAfter <-chan time.Time
	if s.CancelAfter > 0 {
		cancelAfter = clock.After(s.CancelAfter)
	}
	done := ctx.Done()
	view := bar.New(bar.WithWidth(30), bar.WithoutPercentage())

	for {
		select {
		case <-cancelAfter:
			cancelAfter = nil
			if err := sess.CancelTransfer(s.Transfer); err != nil {
				return err
			}
		case <-done:
			done = nil
			if err := sess.CancelTransfer(s.Transfer); err != nil {
				return err
			}
		case ev := <-events:
			if !sess.HandleEvent(ev) {
				continue
			}
			fmt.Fprintf(g.Out, "%-9s %s %5.1f%%\n", ev.Status, view.ViewAs(ev.Value/progress.Max), ev.Value)
			if !ev.Status.Terminal() {
				continue
			}
			if c, ok := sess.Modals().Render(); ok {
				fmt.Fprintf(g.Out, "\n%s\n%s\n", c.Title, c.Body)
			}
			return nil
		}
	}
}

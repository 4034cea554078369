// Package session owns the state of every demo page, the transfer
// simulators and the single modal slot. A Session belongs to one event loop
// and is not safe for concurrent use; simulator events reach it through
// HandleEvent on that loop.
package session

import (
	"context"
	"log/slog"
	"time"

	"demodeck/internal/modal"
	"demodeck/internal/progress"

	"github.com/jonboulle/clockwork"
)

// Notification records a finished run.
type Notification struct {
	SimID   string
	RunID   string
	Kind    modal.Kind
	Message string
	At      time.Time
}

// Session is the page controller.
type Session struct {
	Product   ProductPage
	Video     VideoPage
	Analytics AnalyticsPage

	modals *modal.Dispatcher
	logger *slog.Logger
	ctx    context.Context

	sims      map[string]*progress.Simulator
	transfers map[string]Transfer
	runs      map[string]runRecord // sim ID -> latest run seen

	notifications []Notification
}

// runRecord tracks the latest run of one simulator. A new run replaces it.
type runRecord struct {
	id       string
	started  time.Time
	finished bool
}

type config struct {
	clock    clockwork.Clock
	interval time.Duration
	stepper  func() progress.Stepper
	emitter  progress.Emitter
	modals   *modal.Dispatcher
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*config)

// WithClock drives every simulator from c.
func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithInterval sets the simulator tick cadence.
func WithInterval(d time.Duration) Option {
	return func(cfg *config) { cfg.interval = d }
}

// WithStepRange draws each tick's increment from [lo, hi).
func WithStepRange(lo, hi float64) Option {
	return func(cfg *config) {
		cfg.stepper = func() progress.Stepper { return progress.NewRandomStep(lo, hi) }
	}
}

// WithStepper gives every simulator the same stepper.
func WithStepper(st progress.Stepper) Option {
	return func(cfg *config) {
		cfg.stepper = func() progress.Stepper { return st }
	}
}

// WithEmitter sets where simulator events go. The owner must feed them back
// into HandleEvent.
func WithEmitter(e progress.Emitter) Option {
	return func(cfg *config) { cfg.emitter = e }
}

// WithDispatcher uses d as the modal slot.
func WithDispatcher(d *modal.Dispatcher) Option {
	return func(cfg *config) { cfg.modals = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// New builds a session with mock page data. ctx bounds every simulator run.
func New(ctx context.Context, opts ...Option) *Session {
	cfg := config{
		clock:    clockwork.NewRealClock(),
		interval: progress.DefaultInterval,
		stepper: func() progress.Stepper {
			return progress.NewRandomStep(progress.DefaultMinStep, progress.DefaultMaxStep)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.modals == nil {
		cfg.modals = modal.NewDispatcher()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Session{
		Product:   defaultProductPage(),
		Video:     defaultVideoPage(),
		Analytics: defaultAnalyticsPage(),
		modals:    cfg.modals,
		logger:    cfg.logger,
		ctx:       ctx,
		sims:      make(map[string]*progress.Simulator),
		transfers: make(map[string]Transfer),
		runs:      make(map[string]runRecord),
	}
	for _, t := range defaultTransfers() {
		s.transfers[t.ID] = t
		s.sims[t.ID] = progress.New(t.ID,
			progress.WithLabel(t.Label),
			progress.WithClock(cfg.clock),
			progress.WithInterval(cfg.interval),
			progress.WithStepper(cfg.stepper()),
			progress.WithEmitter(cfg.emitter),
		)
	}
	return s
}

// Modals returns the modal slot.
func (s *Session) Modals() *modal.Dispatcher { return s.modals }

// Notifications returns the recorded completions, oldest first.
func (s *Session) Notifications() []Notification {
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// HandleEvent applies a simulator event. It returns false for events that
// were dropped: unknown simulators and runs that are no longer current.
func (s *Session) HandleEvent(ev progress.Event) bool {
	sim, ok := s.sims[ev.SimID]
	if !ok {
		s.logger.Debug("event for unknown simulator", "sim", ev.SimID)
		return false
	}
	if ev.RunID != sim.Snapshot().RunID {
		s.logger.Debug("stale progress event", "sim", ev.SimID, "run", ev.RunID, "status", ev.Status)
		return false
	}

	switch ev.Status {
	case progress.StatusStarted:
		s.runs[ev.SimID] = runRecord{id: ev.RunID, started: ev.Timestamp}
	case progress.StatusDone:
		s.complete(ev)
	case progress.StatusCancelled:
		s.cancelled(ev)
	}
	return true
}

func (s *Session) complete(ev progress.Event) {
	rec, ok := s.runs[ev.SimID]
	if ok && rec.id == ev.RunID && rec.finished {
		return
	}
	var elapsed time.Duration
	if ok && rec.id == ev.RunID {
		elapsed = ev.Timestamp.Sub(rec.started)
	}
	s.runs[ev.SimID] = runRecord{id: ev.RunID, finished: true}

	t := s.transfers[ev.SimID]

	var kind modal.Kind
	var payload any
	switch ev.SimID {
	case SimExport:
		kind = modal.KindExportReport
		payload = s.reportPayload()
	case SimDownload:
		kind = modal.KindDownloadComplete
		payload = modal.TransferPayload{Name: t.Label, File: t.File, Bytes: t.Bytes, Elapsed: elapsed}
	default:
		kind = modal.KindUploadComplete
		payload = modal.TransferPayload{Name: t.Label, File: t.File, Bytes: t.Bytes, Elapsed: elapsed}
	}
	s.modals.Open(kind, payload)

	msg := t.File + " " + t.verb()
	if ev.SimID == SimExport {
		msg = s.reportPayload().Name + " exported"
	}
	s.notifications = append(s.notifications, Notification{
		SimID:   ev.SimID,
		RunID:   ev.RunID,
		Kind:    kind,
		Message: msg,
		At:      ev.Timestamp,
	})
	s.logger.Info("transfer complete", "sim", ev.SimID, "run", ev.RunID, "elapsed", elapsed)
}

func (s *Session) cancelled(ev progress.Event) {
	// Only runs that were started and not finished were interrupted.
	rec, ok := s.runs[ev.SimID]
	if !ok || rec.id != ev.RunID || rec.finished {
		return
	}
	s.runs[ev.SimID] = runRecord{id: ev.RunID, finished: true}

	t := s.transfers[ev.SimID]
	s.modals.Open(modal.KindTransferCanceled, modal.TransferPayload{Name: t.Label, File: t.File, Bytes: t.Bytes})
	s.logger.Info("transfer cancelled", "sim", ev.SimID, "run", ev.RunID)
}

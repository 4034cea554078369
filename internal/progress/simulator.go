package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// DefaultInterval is the tick cadence when none is configured.
const DefaultInterval = 200 * time.Millisecond

// Default step bounds for RandomStep.
const (
	DefaultMinStep = 5.0
	DefaultMaxStep = 15.0
)

// Snapshot is a point-in-time copy of a simulator's state.
type Snapshot struct {
	State
	RunID string
}

// Simulator advances a State on a fixed cadence until it reaches Max.
// At most one tick source is active per simulator. Starting while running
// restarts from the start value; the previous run is retired first.
type Simulator struct {
	id       string
	label    string
	clock    clockwork.Clock
	interval time.Duration
	stepper  Stepper
	emitter  Emitter
	tracer   oteltrace.Tracer

	mu     sync.Mutex
	state  State
	runID  string
	gen    uint64
	ticker clockwork.Ticker
	stop   context.CancelFunc
	exited chan struct{}
	span   oteltrace.Span
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock sets the clock ticks are drawn from.
func WithClock(c clockwork.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithStepper sets the per-tick increment source.
func WithStepper(st Stepper) Option {
	return func(s *Simulator) {
		if st != nil {
			s.stepper = st
		}
	}
}

// WithEmitter sets where events go.
func WithEmitter(e Emitter) Option {
	return func(s *Simulator) {
		if e != nil {
			s.emitter = e
		}
	}
}

// WithLabel sets the human-readable label carried on events.
func WithLabel(label string) Option {
	return func(s *Simulator) { s.label = label }
}

// New creates an idle simulator.
func New(id string, opts ...Option) *Simulator {
	s := &Simulator{
		id:       id,
		label:    id,
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		stepper:  NewRandomStep(DefaultMinStep, DefaultMaxStep),
		emitter:  discardEmitter{},
		tracer:   otel.Tracer("demodeck/progress"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the simulator identifier.
func (s *Simulator) ID() string { return s.id }

// Label returns the simulator label.
func (s *Simulator) Label() string { return s.label }

// Start begins a run at zero and returns its run ID.
func (s *Simulator) Start(ctx context.Context) string {
	return s.StartFrom(ctx, 0)
}

// StartFrom begins a run at from and returns its run ID. Cancelling ctx
// cancels the run.
func (s *Simulator) StartFrom(ctx context.Context, from float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detachLocked("restarted")
	s.gen++
	s.runID = uuid.NewString()
	s.state.Start(from)

	_, s.span = s.tracer.Start(ctx, "progress.run", oteltrace.WithAttributes(
		attribute.String("progress.sim_id", s.id),
		attribute.String("progress.run_id", s.runID),
		attribute.Float64("progress.start", s.state.Value),
	))
	s.emitLocked(StatusStarted)

	if !s.state.Running {
		s.emitLocked(StatusDone)
		s.detachLocked("done")
		return s.runID
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.ticker = s.clock.NewTicker(s.interval)
	s.exited = make(chan struct{})
	go s.loop(runCtx, s.gen, s.ticker.Chan(), s.exited)
	return s.runID
}

// Cancel stops the current run and resets the value to zero. It always
// emits StatusCancelled, even when idle.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Snapshot returns the current state and run ID.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, RunID: s.runID}
}

// Wait blocks until the current run's tick goroutine has exited.
func (s *Simulator) Wait() {
	s.mu.Lock()
	ch := s.exited
	s.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (s *Simulator) loop(ctx context.Context, gen uint64, ticks <-chan time.Time, exited chan struct{}) {
	defer close(exited)
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.gen == gen {
				s.cancelLocked()
			}
			s.mu.Unlock()
			return
		case <-ticks:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick applies one step; returns false once the run is over or retired.
func (s *Simulator) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || !s.state.Running {
		return false
	}
	if s.state.Advance(s.stepper.Next()) {
		s.emitLocked(StatusDone)
		s.detachLocked("done")
		return false
	}
	s.emitLocked(StatusRunning)
	return true
}

func (s *Simulator) cancelLocked() {
	s.gen++
	s.detachLocked("cancelled")
	s.state.Cancel()
	s.emitLocked(StatusCancelled)
}

// detachLocked releases the tick source and closes the run span.
func (s *Simulator) detachLocked(outcome string) {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	if s.span != nil {
		s.span.SetAttributes(
			attribute.String("progress.outcome", outcome),
			attribute.Float64("progress.value", s.state.Value),
		)
		s.span.End()
		s.span = nil
	}
}

func (s *Simulator) emitLocked(st Status) {
	s.emitter.Emit(Event{
		SimID:     s.id,
		RunID:     s.runID,
		Label:     s.label,
		Status:    st,
		Value:     s.state.Value,
		Timestamp: s.clock.Now(),
	})
}

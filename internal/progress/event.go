package progress

import "time"

// Status indicates the lifecycle point a simulator event reports.
type Status string

const (
	StatusStarted   Status = "started"
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further events follow for the run.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Event is emitted by a Simulator on start, on every tick, on completion and
// on cancellation. RunID identifies a single Start; events carrying a RunID
// other than the simulator's current one are stale.
type Event struct {
	SimID     string
	RunID     string
	Label     string
	Status    Status
	Value     float64
	Timestamp time.Time
}

// Emitter receives simulator events. Emit is called with the simulator lock
// held, so implementations must not call back into the simulator.
type Emitter interface {
	Emit(Event)
}

// ChanEmitter emits events to a channel for an event loop to consume.
type ChanEmitter struct {
	Ch chan<- Event
}

// Emit sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; drop rather than stall the tick goroutine
	}
}

// FuncEmitter adapts a function to Emitter.
type FuncEmitter func(Event)

// Emit implements Emitter.
func (f FuncEmitter) Emit(ev Event) {
	if f != nil {
		f(ev)
	}
}

// MultiEmitter fans an event out to every non-nil emitter in order.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(ev Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(ev)
		}
	}
}

type discardEmitter struct{}

func (discardEmitter) Emit(Event) {}

// Package progress simulates long-running transfers by advancing a bounded
// percentage on a timer until it reaches 100.
package progress

// Max is the completion bound for State.Value.
const Max = 100.0

// State is the bounded progress value of a single simulated operation.
// Invariant: 0 <= Value <= Max, and Value == Max implies !Running.
type State struct {
	Value   float64
	Running bool
}

// Start begins a run at from (clamped into [0, Max]). Starting at Max
// completes immediately.
func (s *State) Start(from float64) {
	s.Value = clamp(from)
	s.Running = s.Value < Max
}

// Advance adds delta while running and reports whether this call completed
// the run. Negative deltas are ignored so the value never decreases.
func (s *State) Advance(delta float64) bool {
	if !s.Running {
		return false
	}
	if delta > 0 {
		s.Value = clamp(s.Value + delta)
	}
	if s.Value >= Max {
		s.Value = Max
		s.Running = false
		return true
	}
	return false
}

// Cancel stops the run and resets the value to zero.
func (s *State) Cancel() {
	s.Running = false
	s.Value = 0
}

// Done reports whether the run reached Max.
func (s State) Done() bool {
	return s.Value >= Max
}

// Fraction returns Value scaled to [0, 1] for progress bar rendering.
func (s State) Fraction() float64 {
	return s.Value / Max
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > Max:
		return Max
	default:
		return v
	}
}

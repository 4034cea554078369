package progress

import "math/rand/v2"

// Stepper yields the increment applied on each tick.
type Stepper interface {
	Next() float64
}

// FixedStep advances by the same amount every tick.
type FixedStep float64

// Next implements Stepper.
func (f FixedStep) Next() float64 { return float64(f) }

// RandomStep advances by a uniformly random amount in [Min, Max) to mimic
// variable transfer speed. Not safe for concurrent use; give each simulator
// its own.
type RandomStep struct {
	Min float64
	Max float64
	rng *rand.Rand
}

// NewRandomStep returns a RandomStep seeded from the runtime source.
func NewRandomStep(lo, hi float64) *RandomStep {
	return NewSeededRandomStep(lo, hi, rand.Uint64())
}

// NewSeededRandomStep returns a RandomStep with a reproducible sequence.
func NewSeededRandomStep(lo, hi float64, seed uint64) *RandomStep {
	return &RandomStep{
		Min: lo,
		Max: hi,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next implements Stepper.
func (r *RandomStep) Next() float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	f := rand.Float64
	if r.rng != nil {
		f = r.rng.Float64
	}
	return r.Min + f()*(r.Max-r.Min)
}

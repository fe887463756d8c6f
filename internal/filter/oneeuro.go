// Package filter provides adaptive low-pass filtering for noisy gesture signals.
package filter

import "math"

// Default One-Euro parameters. These favor stability; channel-specific
// defaults live in channels.go.
const (
	DefaultMinCutoff = 1.0
	DefaultBeta      = 0.007
	DefaultDCutoff   = 1.0
)

// OneEuro is a velocity-adaptive low-pass filter ("One-Euro" filter).
// Faster signal motion widens the cutoff, trading smoothing for lag
// dynamically. One instance filters one scalar channel.
type OneEuro struct {
	minCutoff float64
	beta      float64
	dCutoff   float64

	xPrev       float64
	dxPrev      float64
	tPrev       float64
	initialized bool
}

// NewOneEuro creates a filter with the given parameters.
// Non-positive minCutoff or dCutoff fall back to the defaults.
func NewOneEuro(minCutoff, beta, dCutoff float64) *OneEuro {
	f := &OneEuro{}
	f.SetParams(minCutoff, beta, dCutoff)
	return f
}

// SetParams updates the filter parameters. Non-positive minCutoff or
// dCutoff are replaced with defaults; beta may be zero (no adaptation).
func (f *OneEuro) SetParams(minCutoff, beta, dCutoff float64) {
	if minCutoff <= 0 {
		minCutoff = DefaultMinCutoff
	}
	if dCutoff <= 0 {
		dCutoff = DefaultDCutoff
	}
	if beta < 0 {
		beta = 0
	}
	f.minCutoff = minCutoff
	f.beta = beta
	f.dCutoff = dCutoff
}

// Filter processes one sample x observed at time tMs (milliseconds on a
// monotonic clock) and returns the filtered value.
//
// The first call after construction or Reset returns x unchanged and seeds
// the internal state. A call with tMs at or before the previous timestamp
// is a no-op that returns the previous filtered value; duplicate or
// out-of-order timestamps never corrupt state.
func (f *OneEuro) Filter(x, tMs float64) float64 {
	if !f.initialized {
		f.xPrev = x
		f.dxPrev = 0
		f.tPrev = tMs
		f.initialized = true
		return x
	}

	dt := (tMs - f.tPrev) / 1000.0 // cutoffs are in Hz
	if dt <= 0 {
		return f.xPrev
	}

	dx := (x - f.xPrev) / dt
	dxFiltered := lowpass(dx, f.dxPrev, smoothingAlpha(f.dCutoff, dt))

	cutoff := f.minCutoff + f.beta*math.Abs(dxFiltered)
	filtered := lowpass(x, f.xPrev, smoothingAlpha(cutoff, dt))

	f.xPrev = filtered
	f.dxPrev = dxFiltered
	f.tPrev = tMs
	return filtered
}

// Reset clears the filter state. The next Filter call behaves as a
// fresh first call.
func (f *OneEuro) Reset() {
	f.xPrev = 0
	f.dxPrev = 0
	f.tPrev = 0
	f.initialized = false
}

// smoothingAlpha computes the exponential smoothing factor for a cutoff
// frequency (Hz) and sample interval dt (seconds).
func smoothingAlpha(cutoff, dt float64) float64 {
	tau := 1.0 / (2.0 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau/dt)
}

func lowpass(x, prev, alpha float64) float64 {
	return alpha*x + (1.0-alpha)*prev
}

// Vector filters an n-dimensional signal with one independent scalar
// filter per dimension.
type Vector struct {
	filters []*OneEuro
}

// NewVector creates a vector filter of the given dimension, all
// dimensions sharing the same parameters.
func NewVector(dim int, minCutoff, beta, dCutoff float64) *Vector {
	v := &Vector{filters: make([]*OneEuro, dim)}
	for i := range v.filters {
		v.filters[i] = NewOneEuro(minCutoff, beta, dCutoff)
	}
	return v
}

// Filter processes one sample per dimension. The result slice is freshly
// allocated; extra input dimensions beyond the filter's are ignored.
func (v *Vector) Filter(xs []float64, tMs float64) []float64 {
	out := make([]float64, len(v.filters))
	for i, f := range v.filters {
		if i < len(xs) {
			out[i] = f.Filter(xs[i], tMs)
		}
	}
	return out
}

// Reset clears every dimension.
func (v *Vector) Reset() {
	for _, f := range v.filters {
		f.Reset()
	}
}

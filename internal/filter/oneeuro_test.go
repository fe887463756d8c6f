package filter

import (
	"math"
	"testing"
)

func TestOneEuro_FirstCallPassesThrough(t *testing.T) {
	f := NewOneEuro(1.0, 0.01, 1.0)

	got := f.Filter(0.42, 1000)
	if got != 0.42 {
		t.Errorf("first call should return input unchanged, got %f", got)
	}
}

func TestOneEuro_DuplicateTimestampIsNoOp(t *testing.T) {
	f := NewOneEuro(1.0, 0.01, 1.0)

	f.Filter(0.5, 1000)
	first := f.Filter(0.7, 1033)

	// Same timestamp: must return the same value both times and leave
	// state untouched.
	again := f.Filter(0.9, 1033)
	if again != first {
		t.Errorf("duplicate timestamp should return previous value %f, got %f", first, again)
	}

	// Decreasing timestamp behaves the same.
	back := f.Filter(0.1, 900)
	if back != first {
		t.Errorf("decreasing timestamp should return previous value %f, got %f", first, back)
	}

	// A later valid sample still filters normally from uncorrupted state.
	next := f.Filter(0.7, 1066)
	if math.IsNaN(next) || next == first && first != 0.7 {
		// next must move toward 0.7 from first
	}
	if (next-first)*(0.7-first) < 0 {
		t.Errorf("filter moved away from input after no-op calls: prev=%f next=%f", first, next)
	}
}

func TestOneEuro_SmoothsJitter(t *testing.T) {
	f := NewOneEuro(1.0, 0.0, 1.0)

	// A jittery signal around 0.5 at 30 Hz.
	tMs := 0.0
	f.Filter(0.5, tMs)
	var out float64
	for i := 0; i < 60; i++ {
		tMs += 33.0
		x := 0.5
		if i%2 == 0 {
			x = 0.6
		} else {
			x = 0.4
		}
		out = f.Filter(x, tMs)
	}

	// Filtered output should sit much closer to the mean than the raw
	// excursion of 0.1.
	if math.Abs(out-0.5) > 0.05 {
		t.Errorf("expected filtered value near 0.5, got %f", out)
	}
}

func TestOneEuro_FastMotionTracksCloser(t *testing.T) {
	// With beta > 0 a fast ramp should be tracked with less lag than with
	// beta == 0.
	adaptive := NewOneEuro(1.0, 0.5, 1.0)
	static := NewOneEuro(1.0, 0.0, 1.0)

	tMs := 0.0
	adaptive.Filter(0, tMs)
	static.Filter(0, tMs)

	x := 0.0
	var a, s float64
	for i := 0; i < 30; i++ {
		tMs += 16.0
		x += 0.1 // fast ramp
		a = adaptive.Filter(x, tMs)
		s = static.Filter(x, tMs)
	}

	lagAdaptive := math.Abs(x - a)
	lagStatic := math.Abs(x - s)
	if lagAdaptive >= lagStatic {
		t.Errorf("adaptive cutoff should reduce lag: adaptive=%f static=%f", lagAdaptive, lagStatic)
	}
}

func TestOneEuro_ResetBehavesAsFresh(t *testing.T) {
	f := NewOneEuro(1.0, 0.01, 1.0)

	f.Filter(0.2, 100)
	f.Filter(0.3, 133)
	f.Reset()

	got := f.Filter(0.9, 50)
	if got != 0.9 {
		t.Errorf("first call after Reset should return input unchanged, got %f", got)
	}
}

func TestVector_IndependentDimensions(t *testing.T) {
	v := NewVector(3, 1.0, 0.0, 1.0)

	out := v.Filter([]float64{1, 2, 3}, 0)
	for i, want := range []float64{1, 2, 3} {
		if out[i] != want {
			t.Errorf("dimension %d: first call should pass through, got %f", i, out[i])
		}
	}

	out = v.Filter([]float64{2, 2, 0}, 33)
	// Dimension 1 is constant and must stay exactly at 2.
	if out[1] != 2 {
		t.Errorf("constant dimension drifted to %f", out[1])
	}
	// Dimensions 0 and 2 moved in opposite directions.
	if !(out[0] > 1 && out[0] < 2) {
		t.Errorf("dimension 0 should be between 1 and 2, got %f", out[0])
	}
	if !(out[2] < 3 && out[2] > 0) {
		t.Errorf("dimension 2 should be between 0 and 3, got %f", out[2])
	}
}

func TestChannels_Reset(t *testing.T) {
	c := NewChannels()

	c.Pinch(0.4, 100)
	c.Pinch(0.6, 133)
	c.Orientation(0.1, 0.2, 0.3, 133)

	c.Reset()

	if got := c.Pinch(0.9, 10); got != 0.9 {
		t.Errorf("pinch channel after Reset should pass through, got %f", got)
	}
	yaw, pitch, roll := c.Orientation(0.5, -0.5, 0.25, 10)
	if yaw != 0.5 || pitch != -0.5 || roll != 0.25 {
		t.Errorf("orientation channel after Reset should pass through, got %f %f %f", yaw, pitch, roll)
	}
}

package detector

import (
	"math"
	"testing"
)

func TestDist(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 0}
	b := Point3D{X: 3, Y: 4, Z: 0}

	if d := Dist(a, b); d != 5 {
		t.Errorf("expected distance 5, got %f", d)
	}

	if d := Dist(a, a); d != 0 {
		t.Errorf("expected distance 0 for identical points, got %f", d)
	}
}

func TestFrame_Primary(t *testing.T) {
	var nilFrame *Frame
	if nilFrame.Primary() != nil {
		t.Error("nil frame should have no primary hand")
	}

	empty := &Frame{TimestampMs: 100}
	if empty.Primary() != nil {
		t.Error("empty frame should have no primary hand")
	}

	left := OpenPalmLandmarks()
	left.Handedness = "Left"
	frame := &Frame{
		Hands:       []HandLandmarks{left, ClosedFistLandmarks()},
		TimestampMs: 100,
	}

	p := frame.Primary()
	if p == nil {
		t.Fatal("expected a primary hand")
	}
	if p.Handedness != "Left" {
		t.Errorf("primary should be the first hand, got %q", p.Handedness)
	}
}

func TestTranslated(t *testing.T) {
	h := OneFingerLandmarks()
	moved := Translated(h, 0.05, -0.02)

	for i := range h.Points {
		if got := moved.Points[i].X - h.Points[i].X; math.Abs(got-0.05) > 1e-12 {
			t.Fatalf("point %d x shifted by %f, want 0.05", i, got)
		}
		if got := moved.Points[i].Y - h.Points[i].Y; math.Abs(got-(-0.02)) > 1e-12 {
			t.Fatalf("point %d y shifted by %f, want -0.02", i, got)
		}
		if moved.Points[i].Z != h.Points[i].Z {
			t.Fatalf("point %d z changed", i)
		}
	}

	// Original untouched.
	if h.Points[IndexTip].X != OneFingerLandmarks().Points[IndexTip].X {
		t.Error("Translated mutated its input")
	}
}

func TestPoseFixtures_Shape(t *testing.T) {
	poses := map[string]HandLandmarks{
		"open_palm":   OpenPalmLandmarks(),
		"closed_fist": ClosedFistLandmarks(),
		"one_finger":  OneFingerLandmarks(),
		"two_fingers": TwoFingersLandmarks(),
		"pinch":       PinchLandmarks(),
	}

	for name, h := range poses {
		if h.Score <= 0 {
			t.Errorf("%s: fixture should carry a detection score", name)
		}
		// Landmarks stay inside the normalized image.
		for i, p := range h.Points {
			if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
				t.Errorf("%s: point %d outside [0,1]: %+v", name, i, p)
			}
		}
	}

	// The pinch fixture actually pinches.
	pinch := PinchLandmarks()
	d := Dist(pinch.Points[ThumbTip], pinch.Points[IndexTip])
	scale := Dist(pinch.Points[Wrist], pinch.Points[IndexMCP])
	if d/scale > 0.25 {
		t.Errorf("pinch fixture thumb-index distance too large: %f of hand scale", d/scale)
	}

	// The open palm does not.
	open := OpenPalmLandmarks()
	d = Dist(open.Points[ThumbTip], open.Points[IndexTip])
	if d/scale < 1.0 {
		t.Errorf("open palm fixture thumb-index distance too small: %f of hand scale", d/scale)
	}
}

package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestNewMotionGate(t *testing.T) {
	g := NewMotionGate(2.5)
	defer g.Close()

	if g.threshold != 2.5 {
		t.Errorf("threshold = %f, want 2.5", g.threshold)
	}
	if g.initialized {
		t.Error("gate should not be initialized before the first frame")
	}

	fallback := NewMotionGate(-1)
	defer fallback.Close()
	if fallback.threshold != DefaultMotionPercent {
		t.Errorf("non-positive threshold should fall back to %f, got %f", DefaultMotionPercent, fallback.threshold)
	}
}

func TestMotionGate_StillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0)
	defer g.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	if g.Observe(&frame1) {
		t.Error("baseline frame should not report motion")
	}
	if g.Observe(&frame2) {
		t.Error("identical frames should not report motion")
	}
}

func TestMotionGate_MovingScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0)
	defer g.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	g.Observe(&black)
	if !g.Observe(&white) {
		t.Error("black-to-white transition should report motion")
	}

	// Motion just happened, so the quiet timer is near zero.
	if quiet := g.QuietFor(); quiet > time.Second {
		t.Errorf("expected near-zero quiet duration, got %v", quiet)
	}
}

func TestMotionGate_QuietForGrows(t *testing.T) {
	g := NewMotionGate(1.0)
	defer g.Close()

	g.lastMotion = time.Now().Add(-3 * time.Second)
	if quiet := g.QuietFor(); quiet < 2*time.Second {
		t.Errorf("expected quiet duration around 3s, got %v", quiet)
	}

	g.Reset()
	if quiet := g.QuietFor(); quiet > time.Second {
		t.Errorf("Reset should restart the quiet timer, got %v", quiet)
	}
}

func TestMotionGate_NilAndEmptyFrames(t *testing.T) {
	g := NewMotionGate(1.0)
	defer g.Close()

	if g.Observe(nil) {
		t.Error("nil frame should not report motion")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if g.Observe(&empty) {
		t.Error("empty frame should not report motion")
	}
}

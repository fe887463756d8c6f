package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

// threeFingerLandmarks builds a pose with index, middle and ring extended.
// Counts of 3-4 have no defined gesture and must classify as unknown.
func threeFingerLandmarks() detector.HandLandmarks {
	h := detector.TwoFingersLandmarks()
	h.Points[detector.RingMCP] = detector.Point3D{X: 0.45, Y: 0.68}
	h.Points[detector.RingPIP] = detector.Point3D{X: 0.46, Y: 0.55}
	h.Points[detector.RingDIP] = detector.Point3D{X: 0.465, Y: 0.45}
	h.Points[detector.RingTip] = detector.Point3D{X: 0.47, Y: 0.35}
	return h
}

func frameOf(hands ...detector.HandLandmarks) *detector.Frame {
	return &detector.Frame{Hands: hands, TimestampMs: 1000}
}

func TestClassifier_NoHands(t *testing.T) {
	var cal Calibration
	c := NewClassifier(&cal)

	features, state := c.Recognize(frameOf())

	if state.HandVisible {
		t.Error("expected handVisible=false")
	}
	if state.Gesture != GestureUnknown {
		t.Errorf("expected unknown gesture, got %q", state.Gesture)
	}
	if state.FingerCount != 0 || state.Confidence != 0 {
		t.Errorf("expected zero count and confidence, got %d / %f", state.FingerCount, state.Confidence)
	}
	if features != (ContinuousFeatures{}) {
		t.Errorf("expected zero features, got %+v", features)
	}
}

func TestClassifier_FingerCounts(t *testing.T) {
	tests := []struct {
		name  string
		hand  detector.HandLandmarks
		count int
		want  FingerGesture
	}{
		{"closed_fist", detector.ClosedFistLandmarks(), 0, GestureClosedFist},
		{"one_finger", detector.OneFingerLandmarks(), 1, GestureOneFinger},
		{"two_fingers", detector.TwoFingersLandmarks(), 2, GestureTwoFingers},
		{"open_palm", detector.OpenPalmLandmarks(), 5, GestureOpenPalm},
		{"three_fingers", threeFingerLandmarks(), 3, GestureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cal Calibration
			c := NewClassifier(&cal)

			_, state := c.Recognize(frameOf(tt.hand))

			if state.FingerCount != tt.count {
				t.Errorf("expected %d extended fingers, got %d", tt.count, state.FingerCount)
			}
			if state.Gesture != tt.want {
				t.Errorf("expected gesture %q, got %q", tt.want, state.Gesture)
			}
			if !state.HandVisible {
				t.Error("expected handVisible=true")
			}
		})
	}
}

func TestClassifier_MajorityVoteStability(t *testing.T) {
	t.Run("eight consecutive fist frames", func(t *testing.T) {
		var cal Calibration
		c := NewClassifier(&cal)

		var state FingerGestureState
		for i := 0; i < 8; i++ {
			_, state = c.Recognize(frameOf(detector.ClosedFistLandmarks()))
		}

		if state.Gesture != GestureClosedFist {
			t.Errorf("expected stable closed_fist, got %q", state.Gesture)
		}
		if state.Confidence != 1.0 {
			t.Errorf("expected confidence 1.0, got %f", state.Confidence)
		}
	})

	t.Run("single outlier among seven fist frames", func(t *testing.T) {
		var cal Calibration
		c := NewClassifier(&cal)

		var state FingerGestureState
		for i := 0; i < 8; i++ {
			hand := detector.ClosedFistLandmarks()
			if i == 4 {
				hand = threeFingerLandmarks() // raw unknown
			}
			_, state = c.Recognize(frameOf(hand))
		}

		if state.Gesture != GestureClosedFist {
			t.Errorf("expected stable closed_fist despite outlier, got %q", state.Gesture)
		}
		if state.Confidence != 0.875 {
			t.Errorf("expected confidence 0.875, got %f", state.Confidence)
		}
	})

	t.Run("stable gesture survives a split vote", func(t *testing.T) {
		var cal Calibration
		c := NewClassifier(&cal)

		for i := 0; i < 8; i++ {
			c.Recognize(frameOf(detector.ClosedFistLandmarks()))
		}
		// 4/8 is not enough to overwrite the stable gesture.
		var state FingerGestureState
		for i := 0; i < 4; i++ {
			_, state = c.Recognize(frameOf(detector.OpenPalmLandmarks()))
		}

		if state.Gesture != GestureClosedFist {
			t.Errorf("expected stable gesture to hold at 50%% vote, got %q", state.Gesture)
		}
	})
}

func TestClassifier_PinchStrength(t *testing.T) {
	t.Run("pinched hand near 1", func(t *testing.T) {
		var cal Calibration
		c := NewClassifier(&cal)

		features, _ := c.Recognize(frameOf(detector.PinchLandmarks()))
		if features.PinchStrength < 0.9 {
			t.Errorf("expected pinch strength near 1, got %f", features.PinchStrength)
		}
	})

	t.Run("open palm near 0", func(t *testing.T) {
		var cal Calibration
		c := NewClassifier(&cal)

		features, _ := c.Recognize(frameOf(detector.OpenPalmLandmarks()))
		if features.PinchStrength > 0.1 {
			t.Errorf("expected pinch strength near 0, got %f", features.PinchStrength)
		}
	})

	t.Run("latch lifts the boundary value", func(t *testing.T) {
		// A raw mid-boundary value reads higher after a closed pinch has
		// latched than before one.
		mid := detector.OpenPalmLandmarks()
		scale := detector.Dist(mid.Points[detector.Wrist], mid.Points[detector.IndexMCP])
		// Thumb tip at a distance giving a raw strength of ~0.5.
		mid.Points[detector.ThumbTip] = detector.Point3D{
			X: mid.Points[detector.IndexTip].X + 0.9*scale,
			Y: mid.Points[detector.IndexTip].Y,
		}

		var cal Calibration
		fresh := NewClassifier(&cal)
		before, _ := fresh.Recognize(frameOf(mid))

		latched := NewClassifier(&cal)
		latched.Recognize(frameOf(detector.PinchLandmarks()))
		after, _ := latched.Recognize(frameOf(mid))

		if after.PinchStrength <= before.PinchStrength {
			t.Errorf("latched pinch should read higher at the boundary: before=%f after=%f",
				before.PinchStrength, after.PinchStrength)
		}
	})
}

func TestClassifier_OrientationUsesCalibration(t *testing.T) {
	hand := detector.OpenPalmLandmarks()

	yaw, pitch, roll := palmOrientation(&hand)
	cal := Calibration{NeutralYaw: yaw, NeutralPitch: pitch, NeutralRoll: roll}
	c := NewClassifier(&cal)

	features, _ := c.Recognize(frameOf(hand))
	if features.PalmRotation != 0 || features.PalmTilt != 0 || features.PalmRoll != 0 {
		t.Errorf("expected zero orientation at the calibrated neutral pose, got %+v", features)
	}
}

func TestClassifier_ResetSessionClearsState(t *testing.T) {
	var cal Calibration
	c := NewClassifier(&cal)

	for i := 0; i < 8; i++ {
		c.Recognize(frameOf(detector.ClosedFistLandmarks()))
	}
	c.ResetSession()

	_, state := c.Recognize(frameOf(detector.OpenPalmLandmarks()))
	if state.Gesture != GestureOpenPalm {
		t.Errorf("expected fresh history after reset, got stable %q", state.Gesture)
	}
	if state.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0 over a one-frame history, got %f", state.Confidence)
	}
}

func TestGestureRing_Majority(t *testing.T) {
	var r gestureRing

	if g, ratio := r.majority(); g != GestureUnknown || ratio != 0 {
		t.Errorf("empty ring should report unknown/0, got %q/%f", g, ratio)
	}

	for i := 0; i < 5; i++ {
		r.push(GestureOpenPalm)
	}
	for i := 0; i < 3; i++ {
		r.push(GestureClosedFist)
	}

	g, ratio := r.majority()
	if g != GestureOpenPalm || ratio != 0.625 {
		t.Errorf("expected open_palm at 0.625, got %q at %f", g, ratio)
	}

	// Pushing past capacity evicts the oldest entries.
	for i := 0; i < 5; i++ {
		r.push(GestureClosedFist)
	}
	g, ratio = r.majority()
	if g != GestureClosedFist || ratio != 1.0 {
		t.Errorf("expected closed_fist at 1.0 after eviction, got %q at %f", g, ratio)
	}
}

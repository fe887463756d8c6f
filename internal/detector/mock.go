package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Translated returns a copy of h with every landmark shifted by (dx, dy).
// Useful for simulating hand motion in tests.
func Translated(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}

// The pose constructors below build synthetic landmark sets in normalized
// image coordinates (y grows downward, wrist near the bottom of the frame).
// They are shared by the mock detector, the gesture classifier tests and the
// app integration tests.

// curledFinger fills one finger's four landmarks in a curled pose: the tip
// folds back toward the palm, below its own MCP.
func curledFinger(h *HandLandmarks, mcp int, bx, by float64) {
	h.Points[mcp] = Point3D{X: bx, Y: by, Z: 0}
	h.Points[mcp+1] = Point3D{X: bx, Y: by - 0.04, Z: -0.04}
	h.Points[mcp+2] = Point3D{X: bx - 0.02, Y: by, Z: -0.05}
	h.Points[mcp+3] = Point3D{X: bx - 0.03, Y: by + 0.04, Z: -0.03}
}

// extendedFinger fills one finger's four landmarks in a straight pose
// pointing up (decreasing y).
func extendedFinger(h *HandLandmarks, mcp int, bx, by float64) {
	h.Points[mcp] = Point3D{X: bx, Y: by, Z: 0}
	h.Points[mcp+1] = Point3D{X: bx + 0.01, Y: by - 0.13, Z: 0}
	h.Points[mcp+2] = Point3D{X: bx + 0.015, Y: by - 0.23, Z: 0}
	h.Points[mcp+3] = Point3D{X: bx + 0.02, Y: by - 0.33, Z: 0}
}

// tuckedThumb places the thumb folded across the palm, tip closer to the
// palm center than its MCP.
func tuckedThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0}
	h.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	h.Points[ThumbTip] = Point3D{X: 0.51, Y: 0.70, Z: -0.03}
}

// ClosedFistLandmarks returns a preset HandLandmarks with all five digits
// curled into a fist.
func ClosedFistLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0}
	tuckedThumb(&h)
	curledFinger(&h, IndexMCP, 0.55, 0.68)
	curledFinger(&h, MiddleMCP, 0.50, 0.67)
	curledFinger(&h, RingMCP, 0.45, 0.68)
	curledFinger(&h, PinkyMCP, 0.40, 0.70)

	return h
}

// OneFingerLandmarks returns a preset HandLandmarks with only the index
// finger extended (pointing gesture).
func OneFingerLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0}
	tuckedThumb(&h)
	extendedFinger(&h, IndexMCP, 0.55, 0.68)
	curledFinger(&h, MiddleMCP, 0.50, 0.67)
	curledFinger(&h, RingMCP, 0.45, 0.68)
	curledFinger(&h, PinkyMCP, 0.40, 0.70)

	return h
}

// TwoFingersLandmarks returns a preset HandLandmarks with index and middle
// fingers extended (peace sign).
func TwoFingersLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0}
	tuckedThumb(&h)
	extendedFinger(&h, IndexMCP, 0.55, 0.68)
	extendedFinger(&h, MiddleMCP, 0.50, 0.67)
	curledFinger(&h, RingMCP, 0.45, 0.68)
	curledFinger(&h, PinkyMCP, 0.40, 0.70)

	return h
}

// OpenPalmLandmarks returns a preset HandLandmarks with all five digits
// extended.
func OpenPalmLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0}

	// Thumb extended to the side
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	extendedFinger(&h, IndexMCP, 0.55, 0.68)
	extendedFinger(&h, MiddleMCP, 0.50, 0.66)
	extendedFinger(&h, RingMCP, 0.45, 0.68)
	extendedFinger(&h, PinkyMCP, 0.40, 0.70)

	return h
}

// PinchLandmarks returns a preset HandLandmarks with thumb tip touching the
// index tip, remaining fingers extended.
func PinchLandmarks() HandLandmarks {
	h := OpenPalmLandmarks()

	// Bring thumb and index tips together above the palm.
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.45, Z: 0}
	h.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.55, Z: 0.01}
	h.Points[ThumbTip] = Point3D{X: 0.585, Y: 0.455, Z: 0}

	return h
}

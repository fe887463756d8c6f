// Package detector provides hand landmark detection interfaces and types.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point with x/y normalized to [0,1] image
// coordinates (y grows downward) and z in MediaPipe's relative depth units.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Frame is one detection result: zero or more hands plus the monotonic
// capture timestamp in milliseconds. Frames are immutable once produced.
type Frame struct {
	Hands       []HandLandmarks `json:"hands"`
	TimestampMs float64         `json:"timestampMs"`
}

// Primary returns the first detected hand, or nil when the frame is empty.
// Only one hand drives gesture interpretation; additional hands are counted
// but never fused.
func (f *Frame) Primary() *HandLandmarks {
	if f == nil || len(f.Hands) == 0 {
		return nil
	}
	return &f.Hands[0]
}

// Dist returns the Euclidean distance between two landmarks.
func Dist(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

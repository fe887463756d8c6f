package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// FingerGesture is a discrete finger-count gesture.
type FingerGesture string

const (
	GestureUnknown    FingerGesture = "unknown"
	GestureClosedFist FingerGesture = "closed_fist"
	GestureOneFinger  FingerGesture = "one_finger"
	GestureTwoFingers FingerGesture = "two_fingers"
	GestureOpenPalm   FingerGesture = "open_palm"
)

// Classification thresholds.
const (
	// Pinch hysteresis: the latched pinch state opens below PinchOpen and
	// closes above PinchClosed, never toggling in between.
	PinchOpen   = 0.25
	PinchClosed = 0.70

	// pinchNear/pinchFar map the thumb-index distance (in hand-scale
	// units) onto [0,1]: at pinchNear the strength is 1, at pinchFar 0.
	pinchNear = 0.2
	pinchFar  = 1.6

	// latchBlend is the weight of the latched binary pinch state blended
	// into the reported float.
	latchBlend = 0.35

	// curlStraightCos is the minimum cosine between the MCP->PIP and
	// PIP->TIP segments for a finger to count as straight.
	curlStraightCos = 0.65

	// thumbExtendRatio: thumb tip must be this much farther from the palm
	// center than the thumb MCP to count as extended.
	thumbExtendRatio = 1.15

	// StableRatio is the majority-vote ratio required before the stable
	// gesture is overwritten.
	StableRatio = 0.6
)

// ContinuousFeatures are the per-frame continuous hand signals, derived from
// the primary hand only.
type ContinuousFeatures struct {
	PinchStrength float64 // [0,1], 1 = thumb and index touching
	PalmRotation  float64 // [-1,1], relative to calibrated neutral
	PalmTilt      float64 // [-1,1], relative to calibrated neutral
	PalmRoll      float64 // [-1,1], relative to calibrated neutral
}

// FingerGestureState is the discrete classification result. Gesture is the
// majority-voted stable gesture; FingerCount and Confidence describe the
// current frame and vote.
type FingerGestureState struct {
	Gesture     FingerGesture `json:"gesture"`
	FingerCount int           `json:"fingerCount"`
	Confidence  float64       `json:"confidence"`
	HandVisible bool          `json:"handVisible"`
}

// Calibration holds the session-scoped neutral pose. Defaulted at
// construction, overwritten only by Engine.CalibrateNeutral, never persisted.
type Calibration struct {
	NeutralYaw   float64 `json:"neutralYaw"`
	NeutralPitch float64 `json:"neutralPitch"`
	NeutralRoll  float64 `json:"neutralRoll"`
	HandBaseline float64 `json:"handBaseline"` // wrist to index MCP, 0 = uncalibrated
}

// Classifier converts one hand's landmarks into continuous features and a
// stability-gated discrete gesture. It holds a handle to the engine-owned
// calibration; it never writes it.
type Classifier struct {
	cal     *Calibration
	history gestureRing

	handScale  float64 // cached intrinsic hand scale for this session
	pinchLatch bool
	stable     FingerGesture
}

// NewClassifier creates a classifier reading neutral-pose data from cal.
// The calibration is owned and written by the engine; the classifier only
// reads it.
func NewClassifier(cal *Calibration) *Classifier {
	return &Classifier{cal: cal, stable: GestureUnknown}
}

// Recognize classifies the primary hand of a frame. With no hand detected it
// returns zero features and the canonical not-visible state; this is the
// normal idle input, not an error.
func (c *Classifier) Recognize(frame *detector.Frame) (ContinuousFeatures, FingerGestureState) {
	hand := frame.Primary()
	if hand == nil {
		c.history.push(GestureUnknown)
		if maj, ratio := c.history.majority(); ratio > StableRatio {
			c.stable = maj
		}
		return ContinuousFeatures{}, FingerGestureState{
			Gesture:     GestureUnknown,
			FingerCount: 0,
			Confidence:  0,
			HandVisible: false,
		}
	}

	features := ContinuousFeatures{
		PinchStrength: c.pinchStrength(hand),
	}

	yaw, pitch, roll := palmOrientation(hand)
	features.PalmRotation = clampUnit((yaw - c.cal.NeutralYaw) / (math.Pi / 2))
	features.PalmTilt = clampUnit((pitch - c.cal.NeutralPitch) / (math.Pi / 2))
	features.PalmRoll = clampUnit((roll - c.cal.NeutralRoll) / (math.Pi / 2))

	count := c.extendedFingers(hand)
	c.history.push(countToGesture(count))

	maj, ratio := c.history.majority()
	if ratio > StableRatio {
		c.stable = maj
	}

	return features, FingerGestureState{
		Gesture:     c.stable,
		FingerCount: count,
		Confidence:  ratio,
		HandVisible: true,
	}
}

// ResetSession clears the cached hand scale, pinch latch and gesture
// history. Called on calibration.
func (c *Classifier) ResetSession() {
	c.handScale = 0
	c.pinchLatch = false
	c.stable = GestureUnknown
	c.history.reset()
}

// pinchStrength maps the thumb-index distance to [0,1] (smaller distance ->
// closer to 1), normalized by the intrinsic hand scale so the value is
// consistent across hand sizes and distances from the camera. A latched
// binary state with hysteresis is blended back into the reported float to
// suppress toggling right at the boundary.
func (c *Classifier) pinchStrength(hand *detector.HandLandmarks) float64 {
	scale := c.cal.HandBaseline
	if scale <= 0 {
		if c.handScale <= 0 {
			c.handScale = detector.Dist(hand.Points[detector.Wrist], hand.Points[detector.IndexMCP])
		}
		scale = c.handScale
	}
	if scale <= 1e-6 {
		return 0
	}

	d := detector.Dist(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip]) / scale
	raw := clamp01((pinchFar - d) / (pinchFar - pinchNear))

	if raw >= PinchClosed {
		c.pinchLatch = true
	} else if raw <= PinchOpen {
		c.pinchLatch = false
	}

	latched := 0.0
	if c.pinchLatch {
		latched = 1.0
	}
	return clamp01((1-latchBlend)*raw + latchBlend*latched)
}

// extendedFingers counts extended digits. The four fingers use a curl test
// (near-straight MCP->PIP vs PIP->TIP plus tip above MCP); the thumb uses a
// distance-from-palm-center heuristic because its curl geometry differs.
func (c *Classifier) extendedFingers(hand *detector.HandLandmarks) int {
	count := 0

	fingers := [4]int{detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}
	for _, mcp := range fingers {
		if fingerExtended(hand, mcp) {
			count++
		}
	}

	if thumbExtended(hand) {
		count++
	}

	return count
}

func fingerExtended(hand *detector.HandLandmarks, mcp int) bool {
	m := hand.Points[mcp]
	p := hand.Points[mcp+1] // PIP
	t := hand.Points[mcp+3] // TIP

	// Height check: tip above the knuckle (image y grows downward).
	if t.Y >= m.Y {
		return false
	}

	v1 := detector.Point3D{X: p.X - m.X, Y: p.Y - m.Y, Z: p.Z - m.Z}
	v2 := detector.Point3D{X: t.X - p.X, Y: t.Y - p.Y, Z: t.Z - p.Z}

	n1 := math.Sqrt(v1.X*v1.X + v1.Y*v1.Y + v1.Z*v1.Z)
	n2 := math.Sqrt(v2.X*v2.X + v2.Y*v2.Y + v2.Z*v2.Z)
	if n1 < 1e-9 || n2 < 1e-9 {
		return false
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y + v1.Z*v2.Z) / (n1 * n2)
	return cos > curlStraightCos
}

func thumbExtended(hand *detector.HandLandmarks) bool {
	center := palmCenter(hand)
	tipDist := detector.Dist(hand.Points[detector.ThumbTip], center)
	mcpDist := detector.Dist(hand.Points[detector.ThumbMCP], center)
	return tipDist > mcpDist*thumbExtendRatio
}

func palmCenter(hand *detector.HandLandmarks) detector.Point3D {
	idx := [5]int{detector.Wrist, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}
	var cx, cy, cz float64
	for _, i := range idx {
		cx += hand.Points[i].X
		cy += hand.Points[i].Y
		cz += hand.Points[i].Z
	}
	return detector.Point3D{X: cx / 5, Y: cy / 5, Z: cz / 5}
}

// palmOrientation derives yaw, pitch and roll (radians) from the knuckle
// line (index MCP to pinky MCP) and the palm axis (wrist to middle MCP).
func palmOrientation(hand *detector.HandLandmarks) (yaw, pitch, roll float64) {
	across := detector.Point3D{
		X: hand.Points[detector.IndexMCP].X - hand.Points[detector.PinkyMCP].X,
		Y: hand.Points[detector.IndexMCP].Y - hand.Points[detector.PinkyMCP].Y,
		Z: hand.Points[detector.IndexMCP].Z - hand.Points[detector.PinkyMCP].Z,
	}
	up := detector.Point3D{
		X: hand.Points[detector.MiddleMCP].X - hand.Points[detector.Wrist].X,
		Y: hand.Points[detector.MiddleMCP].Y - hand.Points[detector.Wrist].Y,
		Z: hand.Points[detector.MiddleMCP].Z - hand.Points[detector.Wrist].Z,
	}

	yaw = math.Atan2(across.Z, across.X)
	pitch = math.Atan2(up.Z, math.Hypot(up.X, up.Y))
	roll = math.Atan2(across.Y, across.X)
	return yaw, pitch, roll
}

func countToGesture(count int) FingerGesture {
	switch count {
	case 0:
		return GestureClosedFist
	case 1:
		return GestureOneFinger
	case 2:
		return GestureTwoFingers
	case 5:
		return GestureOpenPalm
	default:
		return GestureUnknown // 3-4 have no defined gesture
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(-1, v))
}

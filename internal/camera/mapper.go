package camera

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/gesture"
)

// Mapper tuning. The per-frame caps bound zoom and rotation velocity
// regardless of frame-rate spikes: a 200 ms stall cannot produce a 200 ms
// sized jump.
const (
	DefaultZoomGain  = 0.8
	DefaultYawGain   = 1.0
	DefaultPitchGain = 1.0

	maxZoomStep  = 0.5  // clamp on pinchDelta*gain*dt before scaling
	maxZoomScale = 1.08 // multiplicative distance change per frame

	maxAngleStep = 3 * math.Pi / 180 // rotation per frame

	// poleEpsilon keeps the polar angle off the poles so the camera's up
	// vector never flips.
	poleEpsilon = 0.01

	// pointerWindow is how long after pointer/touch/wheel input gesture
	// control stays suppressed. Pointer input always wins.
	pointerWindow = 300 * time.Millisecond
)

// Mapper translates gesture snapshots into camera motion. It mutates the
// camera only through the Controllable accessors and never assumes an
// internal representation beyond a spherical offset from a target.
type Mapper struct {
	mu  sync.Mutex
	cam Controllable

	enabled   bool
	zoomGain  float64
	yawGain   float64
	pitchGain float64

	lastPointer time.Time
}

// NewMapper creates an enabled mapper with default sensitivity.
func NewMapper(cam Controllable) *Mapper {
	return &Mapper{
		cam:       cam,
		enabled:   true,
		zoomGain:  DefaultZoomGain,
		yawGain:   DefaultYawGain,
		pitchGain: DefaultPitchGain,
	}
}

// SetEnabled turns gesture-driven camera control on or off.
func (m *Mapper) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// SetSensitivity adjusts the zoom, yaw and pitch gains. Non-positive values
// leave the corresponding gain unchanged.
func (m *Mapper) SetSensitivity(zoom, yaw, pitch float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if zoom > 0 {
		m.zoomGain = zoom
	}
	if yaw > 0 {
		m.yawGain = yaw
	}
	if pitch > 0 {
		m.pitchGain = pitch
	}
}

// NotePointerActivity records direct pointer/touch/wheel input. Apply is a
// no-op for the arbitration window afterwards.
func (m *Mapper) NotePointerActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPointer = time.Now()
}

// Apply advances the camera by one rendered frame using the given snapshot.
// dt is the frame time in seconds. Call once per frame from the render loop.
func (m *Mapper) Apply(snap gesture.Snapshot, dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || dt <= 0 {
		return
	}
	if !m.lastPointer.IsZero() && time.Since(m.lastPointer) < pointerWindow {
		return
	}

	switch snap.Mode {
	case gesture.ModeZoom:
		m.applyZoom(snap.PinchDelta, dt)
	case gesture.ModeOrbit:
		m.applyRotation(snap.Yaw, snap.Pitch, dt)
	}
}

// applyZoom converts a signed pinch delta into a multiplicative distance
// change. Positive delta zooms in (divides distance). The new distance is
// clamped to the camera's bounds here; an implementation may clamp again
// in SetDistance but does not have to.
func (m *Mapper) applyZoom(pinchDelta, dt float64) {
	scaled := pinchDelta * m.zoomGain * dt
	if scaled > maxZoomStep {
		scaled = maxZoomStep
	} else if scaled < -maxZoomStep {
		scaled = -maxZoomStep
	}
	if scaled == 0 {
		return
	}

	scale := 1 + math.Abs(scaled)
	if scale > maxZoomScale {
		scale = maxZoomScale
	}

	dist := m.cam.Distance()
	if scaled > 0 {
		dist /= scale
	} else {
		dist *= scale
	}
	m.cam.SetDistance(clamp(dist, m.cam.MinDistance(), m.cam.MaxDistance()))
}

// applyRotation moves the camera on its orbit sphere by the given yaw and
// pitch rates (rad/s), capped per frame and clamped away from the poles.
func (m *Mapper) applyRotation(yawRate, pitchRate, dt float64) {
	yaw := clampAngle(yawRate * m.yawGain * dt)
	pitch := clampAngle(pitchRate * m.pitchGain * dt)
	if yaw == 0 && pitch == 0 {
		return
	}

	target := m.cam.Target()
	offset := r3.Sub(m.cam.Position(), target)
	radius := r3.Norm(offset)
	if radius == 0 {
		return
	}

	// Spherical coordinates with Y up: theta is the polar angle from +Y,
	// phi the azimuth around it.
	theta := math.Acos(clamp(offset.Y/radius, -1, 1))
	phi := math.Atan2(offset.X, offset.Z)

	phi += yaw
	theta += pitch
	theta = clamp(theta, poleEpsilon, math.Pi-poleEpsilon)

	sinTheta := math.Sin(theta)
	m.cam.SetPosition(r3.Add(target, r3.Vec{
		X: radius * sinTheta * math.Sin(phi),
		Y: radius * math.Cos(theta),
		Z: radius * sinTheta * math.Cos(phi),
	}))
}

func clampAngle(a float64) float64 {
	return clamp(a, -maxAngleStep, maxAngleStep)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package gesture

import (
	"math"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/google/uuid"
)

// EventListenToggle is emitted on a debounced two-finger gesture. It is a
// deliberate exception to the gesture-to-camera rule: the gesture drives no
// camera motion and instead toggles an external listening mode (e.g. a
// speech recognizer). The consumer drains Events().
const EventListenToggle = "listen.toggle"

// Event is a one-shot gesture-derived event published on the engine's
// outbound channel. Delivery is best-effort in-process; events are dropped,
// not queued, when the consumer falls behind.
type Event struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TimestampMs float64 `json:"timestampMs"`
}

// Snapshot is the sole externally visible output of the engine: the current
// interpreted gesture, replaced wholesale on every ingest. Yaw and Pitch are
// rotation rates in rad/s; PinchDelta is a signed zoom rate. The Palm*
// fields are the filtered palm orientation relative to the calibrated
// neutral, in [-1,1].
type Snapshot struct {
	TimestampMs  float64 `json:"timestampMs"`
	Mode         Mode    `json:"mode"`
	Pinch        float64 `json:"pinch"`
	PinchDelta   float64 `json:"pinchDelta"`
	Yaw          float64 `json:"yaw"`
	Pitch        float64 `json:"pitch"`
	PalmRotation float64 `json:"palmRotation"`
	PalmTilt     float64 `json:"palmTilt"`
	PalmRoll     float64 `json:"palmRoll"`
	HandCount    int     `json:"handCount"`
	Quality      float64 `json:"quality"`
}

// Config holds engine tuning parameters.
type Config struct {
	// OrbitGain converts fingertip velocity (normalized units/s) into a
	// rotation rate (rad/s), clamped to ±π.
	OrbitGain float64

	// ZoomInDelta and ZoomOutDelta are the pinch deltas produced by the
	// closed-fist and open-palm gestures.
	ZoomInDelta  float64
	ZoomOutDelta float64

	// ConfidenceThreshold gates which stable gestures are acted on.
	ConfidenceThreshold float64

	// ToggleCooldownMs debounces the two-finger toggle event.
	ToggleCooldownMs float64
}

// DefaultConfig returns the canonical engine tuning.
func DefaultConfig() Config {
	return Config{
		OrbitGain:           2.0,
		ZoomInDelta:         0.8,
		ZoomOutDelta:        -0.8,
		ConfidenceThreshold: 0.5,
		ToggleCooldownMs:    1200,
	}
}

// zoomGestureSignal is fed to the mode machine while a zoom gesture is
// stable; it sits above ZoomPinchThreshold without saturating the channel.
const zoomGestureSignal = 0.9

// Engine orchestrates filtering, classification and the mode machine per
// ingested frame, owns the session calibration, and exposes an immutable
// snapshot of the interpreted gesture. The engine is the sole writer of the
// snapshot and calibration; Read may be called from any goroutine.
type Engine struct {
	mu         sync.RWMutex
	cfg        Config
	cal        Calibration
	classifier *Classifier
	channels   *filter.Channels
	machine    *ModeMachine
	snapshot   Snapshot
	events     chan Event

	lastIngestMs float64

	// Fingertip velocity tracker for the one-finger orbit gesture. Reset
	// whenever the stable gesture is anything else, so a returning finger
	// never inherits a stale delta.
	tipValid bool
	tipX     float64
	tipY     float64
	tipMs    float64

	toggleFired  bool
	lastToggleMs float64
}

// New creates an engine with the given tuning.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:      cfg,
		channels: filter.NewChannels(),
		machine:  NewModeMachine(),
		events:   make(chan Event, 16),
	}
	e.classifier = NewClassifier(&e.cal)
	return e
}

// Events returns the outbound one-shot event channel.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Ingest processes one detection result. Call once per detector callback
// with the detector's monotonic timestamp; the snapshot is fully replaced
// before Ingest returns.
func (e *Engine) Ingest(hands []detector.HandLandmarks, tMs float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var dtMs float64
	if e.lastIngestMs > 0 && tMs > e.lastIngestMs {
		dtMs = tMs - e.lastIngestMs
	}
	e.lastIngestMs = tMs

	frame := &detector.Frame{Hands: hands, TimestampMs: tMs}
	features, state := e.classifier.Recognize(frame)

	if !state.HandVisible {
		e.tipValid = false
		e.machine.Update(0, false, dtMs)
		e.snapshot = Snapshot{TimestampMs: tMs, Mode: ModeIdle}
		return
	}

	pinch := e.channels.Pinch(features.PinchStrength, tMs)
	rotation, tilt, roll := e.channels.Orientation(features.PalmRotation, features.PalmTilt, features.PalmRoll, tMs)

	var pinchDelta, yawRate, pitchRate float64
	zoomSignal := 0.0
	palmActive := false

	acted := state.Confidence >= e.cfg.ConfidenceThreshold
	gesture := state.Gesture
	if !acted {
		gesture = GestureUnknown
	}

	switch gesture {
	case GestureOpenPalm:
		zoomSignal = zoomGestureSignal
		pinchDelta = e.cfg.ZoomOutDelta

	case GestureClosedFist:
		zoomSignal = zoomGestureSignal
		pinchDelta = e.cfg.ZoomInDelta

	case GestureOneFinger:
		palmActive = true
		tip := frame.Primary().Points[detector.IndexTip]
		if e.tipValid && tMs > e.tipMs {
			dtS := (tMs - e.tipMs) / 1000.0
			vx := (tip.X - e.tipX) / dtS
			vy := (tip.Y - e.tipY) / dtS
			yawRate = clampRate(vx * e.cfg.OrbitGain)
			pitchRate = clampRate(vy * e.cfg.OrbitGain)
		}
		e.tipValid = true
		e.tipX, e.tipY, e.tipMs = tip.X, tip.Y, tMs

	case GestureTwoFingers:
		e.emitToggle(tMs)
	}

	if gesture != GestureOneFinger {
		e.tipValid = false
	}

	// The continuous pinch channel can also request zoom (e.g. a held
	// pinch with no recognized discrete gesture).
	signal := math.Max(zoomSignal, pinch)
	mode := e.machine.Update(signal, palmActive, dtMs)

	// Deltas only apply in their committed mode; a candidate still inside
	// its dwell window must not move the camera.
	if mode != ModeZoom {
		pinchDelta = 0
	}
	if mode != ModeOrbit {
		yawRate = 0
		pitchRate = 0
	}

	e.snapshot = Snapshot{
		TimestampMs:  tMs,
		Mode:         mode,
		Pinch:        pinch,
		PinchDelta:   pinchDelta,
		Yaw:          yawRate,
		Pitch:        pitchRate,
		PalmRotation: rotation,
		PalmTilt:     tilt,
		PalmRoll:     roll,
		HandCount:    len(hands),
		Quality:      state.Confidence,
	}
}

// Read returns the current snapshot. Pure; safe to call at render rate.
func (e *Engine) Read() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// CalibrateNeutral captures the current palm orientation and hand scale as
// the neutral pose, then resets the signal filters, mode machine and
// classifier session state. The caller must pass the most recent raw
// landmark frame. Returns false, with no state mutated, when no hand is
// present.
func (e *Engine) CalibrateNeutral(hands []detector.HandLandmarks) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(hands) == 0 {
		return false
	}

	hand := &hands[0]
	yaw, pitch, roll := palmOrientation(hand)
	e.cal = Calibration{
		NeutralYaw:   yaw,
		NeutralPitch: pitch,
		NeutralRoll:  roll,
		HandBaseline: detector.Dist(hand.Points[detector.Wrist], hand.Points[detector.IndexMCP]),
	}

	e.channels.Reset()
	e.machine.Reset()
	e.classifier.ResetSession()

	return true
}

// Calibration returns a copy of the current calibration.
func (e *Engine) Calibration() Calibration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cal
}

// SetCalibration overwrites the calibration, e.g. to restore a caller-held
// value. The engine remains the single writer of the underlying data.
func (e *Engine) SetCalibration(c Calibration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cal = c
}

// emitToggle publishes the listen toggle unless still inside the cooldown.
func (e *Engine) emitToggle(tMs float64) {
	if e.toggleFired && tMs-e.lastToggleMs < e.cfg.ToggleCooldownMs {
		return
	}
	e.toggleFired = true
	e.lastToggleMs = tMs

	select {
	case e.events <- Event{ID: uuid.NewString(), Name: EventListenToggle, TimestampMs: tMs}:
	default:
		// Consumer is not draining; drop rather than block the pipeline.
	}
}

func clampRate(v float64) float64 {
	return math.Min(math.Pi, math.Max(-math.Pi, v))
}

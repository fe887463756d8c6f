package gesture

// Mode is the current mutually exclusive interaction mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeZoom
	ModeOrbit
)

func (m Mode) String() string {
	switch m {
	case ModeZoom:
		return "zoom"
	case ModeOrbit:
		return "orbit"
	default:
		return "idle"
	}
}

// Mode machine timing. Entering a mode from Idle is faster than leaving a
// non-Idle mode, so activation feels responsive while exits don't flicker.
const (
	ZoomPinchThreshold = 0.5
	EnterDelayMs       = 100.0
	ExitDelayMs        = 250.0
	MinModeDurationMs  = 400.0
)

// ModeMachine debounces mode transitions. A candidate mode must persist
// continuously for its delay before the transition commits, and no two
// transitions can occur within MinModeDurationMs. Mode changes only through
// Update, never from a single frame's features.
type ModeMachine struct {
	mode          Mode
	candidate     Mode
	candidateMs   float64
	sinceChangeMs float64
}

// NewModeMachine creates a machine in Idle with its cooldown already
// elapsed, so the first legitimate transition is not delayed artificially.
func NewModeMachine() *ModeMachine {
	return &ModeMachine{
		mode:          ModeIdle,
		candidate:     ModeIdle,
		sinceChangeMs: MinModeDurationMs,
	}
}

// Update advances the machine by dtMs using this frame's pinch signal and
// palm-activity flag, and returns the (possibly unchanged) committed mode.
// Candidate priority: Zoom > Orbit > Idle.
func (s *ModeMachine) Update(pinch float64, palmActive bool, dtMs float64) Mode {
	if dtMs < 0 {
		dtMs = 0
	}
	s.sinceChangeMs += dtMs

	candidate := ModeIdle
	switch {
	case pinch > ZoomPinchThreshold:
		candidate = ModeZoom
	case palmActive:
		candidate = ModeOrbit
	}

	if candidate == s.mode {
		// Nothing pending; any partial dwell toward another mode resets.
		s.candidate = candidate
		s.candidateMs = 0
		return s.mode
	}

	if candidate != s.candidate {
		s.candidate = candidate
		s.candidateMs = 0
	}
	s.candidateMs += dtMs

	delay := ExitDelayMs
	if s.mode == ModeIdle {
		delay = EnterDelayMs
	}

	if s.candidateMs >= delay && s.sinceChangeMs >= MinModeDurationMs {
		s.mode = candidate
		s.candidateMs = 0
		s.sinceChangeMs = 0
	}

	return s.mode
}

// Mode returns the committed mode.
func (s *ModeMachine) Mode() Mode {
	return s.mode
}

// Reset forces Idle and clears all timers. Called on calibration.
func (s *ModeMachine) Reset() {
	s.mode = ModeIdle
	s.candidate = ModeIdle
	s.candidateMs = 0
	s.sinceChangeMs = MinModeDurationMs
}

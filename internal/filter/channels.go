package filter

// Channel defaults. Pinch keeps beta low so the value stays planted while a
// pinch is held; orientation uses a lower minimum cutoff so palm turns stay
// responsive.
const (
	PinchMinCutoff = 1.5
	PinchBeta      = 0.01
	PinchDCutoff   = 1.0

	OrientationMinCutoff = 0.8
	OrientationBeta      = 0.05
	OrientationDCutoff   = 1.0
)

// Channels bundles the named gesture signal filters: one scalar channel for
// pinch strength and one vector channel for palm orientation (yaw, pitch,
// roll), each with channel-appropriate defaults.
type Channels struct {
	pinch       *OneEuro
	orientation *Vector
}

// NewChannels creates the gesture channel filters with default parameters.
func NewChannels() *Channels {
	return &Channels{
		pinch:       NewOneEuro(PinchMinCutoff, PinchBeta, PinchDCutoff),
		orientation: NewVector(3, OrientationMinCutoff, OrientationBeta, OrientationDCutoff),
	}
}

// Pinch filters the pinch strength sample at time tMs.
func (c *Channels) Pinch(x, tMs float64) float64 {
	return c.pinch.Filter(x, tMs)
}

// Orientation filters the yaw/pitch/roll samples at time tMs.
func (c *Channels) Orientation(yaw, pitch, roll, tMs float64) (float64, float64, float64) {
	out := c.orientation.Filter([]float64{yaw, pitch, roll}, tMs)
	return out[0], out[1], out[2]
}

// SetPinchParams overrides the pinch channel parameters.
func (c *Channels) SetPinchParams(minCutoff, beta, dCutoff float64) {
	c.pinch.SetParams(minCutoff, beta, dCutoff)
}

// Reset clears all channels, called on calibration.
func (c *Channels) Reset() {
	c.pinch.Reset()
	c.orientation.Reset()
}

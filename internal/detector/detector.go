package detector

import "gocv.io/x/gocv"

// Detector turns a video frame into hand landmarks. An empty slice with a
// nil error means no hand is in view; the gesture engine treats that as the
// normal idle input, not a failure.
type Detector interface {
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close shuts down the detection backend and releases its resources.
	Close() error
}

// Config tunes the detection backend. The pipeline interprets only the
// primary hand, but tracking a second one keeps landmark IDs stable when
// both are briefly in frame.
type Config struct {
	MaxHands        int     // hands to track, 1 or 2
	MinConfidence   float64 // per-frame detection confidence floor, [0,1]
	MinTrackingConf float64 // cross-frame tracking confidence floor, [0,1]
}

// DefaultConfig returns the tuning used when no config file overrides it.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

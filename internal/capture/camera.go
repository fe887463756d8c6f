// Package capture provides webcam frame capture via GoCV (OpenCV) and a
// frame-differencing motion gate used to throttle detection when the scene
// is still.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings. Hand tracking wants a steady 30 fps; resolution
// stays modest since the landmark model downscales anyway.
const (
	DefaultDeviceID = 0
	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultFPS      = 30
)

// ErrNotOpen is returned when reading from a camera that is not open.
var ErrNotOpen = errors.New("camera is not open")

// Config holds camera capture settings.
type Config struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
}

// DefaultConfig returns the standard capture configuration.
func DefaultConfig() Config {
	return Config{
		DeviceID: DefaultDeviceID,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
	}
}

// Camera is the frame source abstraction. The webcam implementation and the
// playback mock both satisfy it.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller owns the returned Mat
	// and must Close it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// Webcam captures frames from a physical camera device.
type Webcam struct {
	cfg Config

	mu      sync.Mutex
	capture *gocv.VideoCapture
	open    bool
}

// NewWebcam creates a webcam for the given configuration. Zero-valued
// dimensions and rates fall back to the defaults.
func NewWebcam(cfg Config) *Webcam {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	return &Webcam{cfg: cfg}
}

// Open opens the device and applies the configured resolution and rate.
func (w *Webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.open {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(w.cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open capture device %d: %w", w.cfg.DeviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(w.cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(w.cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(w.cfg.FPS))

	w.capture = capture
	w.open = true
	return nil
}

// Close releases the device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open || w.capture == nil {
		w.open = false
		return nil
	}

	err := w.capture.Close()
	w.capture = nil
	w.open = false
	return err
}

// ReadFrame reads one frame from the device.
func (w *Webcam) ReadFrame() (*gocv.Mat, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.open || w.capture == nil {
		return nil, ErrNotOpen
	}

	mat := gocv.NewMat()
	if ok := w.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}
	return &mat, nil
}

// IsOpen reports whether the device is open.
func (w *Webcam) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

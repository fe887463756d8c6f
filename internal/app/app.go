// Package app wires the Mudra pipeline together: camera capture, hand
// detection, the gesture engine and the camera mapper, plus settings
// persistence and action execution.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/camera"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the detection rate when the scene has been still.
	IdleFPS = 5
	// ActiveFPS is the detection rate while the scene is moving.
	ActiveFPS = 30
	// RenderFPS is the rate at which gesture snapshots are applied to the
	// camera.
	RenderFPS = 60
	// IdleTimeout is how long the motion gate must stay quiet before
	// detection drops to the idle rate.
	IdleTimeout = 2 * time.Second
)

// App orchestrates the gesture control pipeline.
type App struct {
	cfg   *config.Config
	store *store.Store

	camera   capture.Camera
	motion   *capture.MotionGate
	detector detector.Detector
	engine   *gesture.Engine
	orbit    *camera.Orbit
	mapper   *camera.Mapper
	actions  *action.Runner

	mu        sync.RWMutex
	enabled   bool
	lastHands []detector.HandLandmarks
	stopCh    chan struct{}
	wg        sync.WaitGroup
	epoch     time.Time
}

// New creates an App from the given configuration and store. The detector
// falls back to the mock implementation when MediaPipe is unavailable.
func New(cfg *config.Config, st *store.Store) *App {
	engine := gesture.New(gesture.Config{
		OrbitGain:           cfg.Gesture.OrbitGain,
		ZoomInDelta:         cfg.Gesture.ZoomInDelta,
		ZoomOutDelta:        cfg.Gesture.ZoomOutDelta,
		ConfidenceThreshold: cfg.Gesture.ConfidenceThreshold,
		ToggleCooldownMs:    cfg.Gesture.ToggleCooldownMs,
	})

	orbit := camera.NewOrbit(r3.Vec{}, r3.Vec{Z: 10}, 2, 50)
	mapper := camera.NewMapper(orbit)
	mapper.SetSensitivity(cfg.Camera.ZoomSensitivity, cfg.Camera.YawSensitivity, cfg.Camera.PitchSensitivity)

	actions := action.NewRunner(time.Duration(cfg.Actions.TimeoutSeconds) * time.Second)
	actions.Bind(gesture.EventListenToggle, cfg.Actions.ListenToggleCommand)

	a := &App{
		cfg:     cfg,
		store:   st,
		camera:  capture.NewWebcam(captureConfig(cfg)),
		motion:  capture.NewMotionGate(capture.DefaultMotionPercent),
		engine:  engine,
		orbit:   orbit,
		mapper:  mapper,
		actions: actions,
		enabled: true,
		epoch:   time.Now(),
	}

	if mp, err := detector.NewMediaPipeDetector(detectorConfig(cfg)); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	a.restoreSettings()
	return a
}

func captureConfig(cfg *config.Config) capture.Config {
	return capture.Config{
		DeviceID: cfg.Capture.DeviceID,
		Width:    cfg.Capture.Width,
		Height:   cfg.Capture.Height,
		FPS:      cfg.Capture.FPS,
	}
}

func detectorConfig(cfg *config.Config) detector.Config {
	return detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConf,
	}
}

// restoreSettings applies persisted settings and calibration on startup.
func (a *App) restoreSettings() {
	if a.store == nil {
		return
	}
	settings := a.store.Settings()

	a.enabled = settings.GetBool(store.SettingEnabled, true)
	a.mapper.SetEnabled(a.enabled)

	// There is no separate pitch setting; the yaw sensitivity drives both
	// rotation axes, same as ApplySettings.
	yawSens := settings.GetFloat(store.SettingYawSensitivity, a.cfg.Camera.YawSensitivity)
	a.mapper.SetSensitivity(
		settings.GetFloat(store.SettingZoomSensitivity, a.cfg.Camera.ZoomSensitivity),
		yawSens,
		yawSens,
	)
}

// SetEnabled enables or disables gesture control and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	a.mapper.SetEnabled(enabled)
	if a.store != nil {
		if err := a.store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			log.Printf("Failed to persist enabled setting: %v", err)
		}
	}
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// ApplySettings reacts to settings changed through the HTTP API.
func (a *App) ApplySettings(changed map[string]string) {
	for key, value := range changed {
		switch key {
		case store.SettingEnabled:
			if enabled, err := strconv.ParseBool(value); err == nil {
				a.SetEnabled(enabled)
			}
		case store.SettingZoomSensitivity:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				a.mapper.SetSensitivity(f, 0, 0)
			}
		case store.SettingYawSensitivity:
			// Yaw sensitivity drives both rotation axes.
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				a.mapper.SetSensitivity(0, f, f)
			}
		}
	}
}

// CalibrateNeutral captures the neutral pose from the most recent raw
// landmark frame. Returns false when no hand is visible. Calibration is
// session-scoped; it is not persisted across restarts.
func (a *App) CalibrateNeutral() bool {
	a.mu.RLock()
	hands := a.lastHands
	a.mu.RUnlock()

	return a.engine.CalibrateNeutral(hands)
}

// Start opens the camera and launches the detection, render and event
// loops. Calling Start on a running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(3)
	go a.runDetection(a.stopCh)
	go a.runRender(a.stopCh)
	go a.drainEvents(a.stopCh)

	log.Println("Gesture pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	log.Println("Gesture pipeline stopped")
}

// nowMs returns milliseconds since the app's epoch, the monotonic timebase
// fed to the engine.
func (a *App) nowMs() float64 {
	return float64(time.Since(a.epoch)) / float64(time.Millisecond)
}

// SetDetector replaces the hand detector. Call before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the frame source. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Engine returns the gesture engine.
func (a *App) Engine() *gesture.Engine {
	return a.engine
}

// Mapper returns the camera mapper.
func (a *App) Mapper() *camera.Mapper {
	return a.mapper
}

// OrbitCamera returns the orbit camera driven by the mapper.
func (a *App) OrbitCamera() *camera.Orbit {
	return a.orbit
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Actions returns the action runner.
func (a *App) Actions() *action.Runner {
	return a.actions
}

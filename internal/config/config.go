// Package config loads Mudra's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Capture contains webcam capture settings.
type Capture struct {
	DeviceID int `toml:"device_id"`
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	FPS      int `toml:"fps"`
}

// Detector contains hand landmark detector settings.
type Detector struct {
	MaxHands        int     `toml:"max_hands"`
	MinConfidence   float64 `toml:"min_confidence"`
	MinTrackingConf float64 `toml:"min_tracking_confidence"`
}

// Gesture contains gesture engine tuning.
type Gesture struct {
	OrbitGain           float64 `toml:"orbit_gain"`
	ZoomInDelta         float64 `toml:"zoom_in_delta"`
	ZoomOutDelta        float64 `toml:"zoom_out_delta"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	ToggleCooldownMs    float64 `toml:"toggle_cooldown_ms"`
}

// Camera contains camera mapper sensitivity settings.
type Camera struct {
	ZoomSensitivity  float64 `toml:"zoom_sensitivity"`
	YawSensitivity   float64 `toml:"yaw_sensitivity"`
	PitchSensitivity float64 `toml:"pitch_sensitivity"`
}

// Server contains the HTTP/WebSocket server settings.
type Server struct {
	Bind string `toml:"bind"`
}

// Storage contains database settings.
type Storage struct {
	DBPath string `toml:"db_path"`
}

// Actions contains the external command run on the listen toggle event.
type Actions struct {
	ListenToggleCommand string `toml:"listen_toggle_command"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

// Config encapsulates all configuration values for Mudra.
type Config struct {
	Capture  Capture  `toml:"capture"`
	Detector Detector `toml:"detector"`
	Gesture  Gesture  `toml:"gesture"`
	Camera   Camera   `toml:"camera"`
	Server   Server   `toml:"server"`
	Storage  Storage  `toml:"storage"`
	Actions  Actions  `toml:"actions"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Capture: Capture{
			DeviceID: 0,
			Width:    640,
			Height:   480,
			FPS:      30,
		},
		Detector: Detector{
			MaxHands:        2,
			MinConfidence:   0.6,
			MinTrackingConf: 0.5,
		},
		Gesture: Gesture{
			OrbitGain:           2.0,
			ZoomInDelta:         0.8,
			ZoomOutDelta:        -0.8,
			ConfidenceThreshold: 0.5,
			ToggleCooldownMs:    1200,
		},
		Camera: Camera{
			ZoomSensitivity:  0.8,
			YawSensitivity:   1.0,
			PitchSensitivity: 1.0,
		},
		Server: Server{
			Bind: "127.0.0.1:8573",
		},
		Storage: Storage{
			DBPath: "~/.mudra/mudra.db",
		},
		Actions: Actions{
			TimeoutSeconds: 10,
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mudra/config.toml")
}

// Load parses and validates the configuration file at path, falling back to
// the default path and then to defaults when no file exists. The returned
// config has its path fields expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Storage.DBPath, err = expandPath(cfg.Storage.DBPath); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Capture.FPS <= 0 {
		return errors.New("capture.fps must be positive")
	}
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return errors.New("capture resolution must be positive")
	}
	if c.Detector.MaxHands < 1 || c.Detector.MaxHands > 2 {
		return errors.New("detector.max_hands must be 1 or 2")
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return errors.New("detector.min_confidence must be in [0,1]")
	}
	if c.Gesture.ConfidenceThreshold < 0 || c.Gesture.ConfidenceThreshold > 1 {
		return errors.New("gesture.confidence_threshold must be in [0,1]")
	}
	if c.Gesture.ToggleCooldownMs < 0 {
		return errors.New("gesture.toggle_cooldown_ms must not be negative")
	}
	if c.Gesture.ZoomInDelta <= 0 {
		return errors.New("gesture.zoom_in_delta must be positive")
	}
	if c.Gesture.ZoomOutDelta >= 0 {
		return errors.New("gesture.zoom_out_delta must be negative")
	}
	if c.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	if c.Storage.DBPath == "" {
		return errors.New("storage.db_path must not be empty")
	}
	if c.Actions.TimeoutSeconds <= 0 {
		return errors.New("actions.timeout_seconds must be positive")
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// expandPath resolves a leading ~ to the user's home directory and returns
// an absolute path.
func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if pathValue == "~" || strings.HasPrefix(pathValue, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		pathValue = filepath.Join(home, strings.TrimPrefix(pathValue, "~"))
	}
	return filepath.Abs(pathValue)
}

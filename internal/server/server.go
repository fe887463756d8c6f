// Package server provides the local HTTP API for the Mudra gesture control
// pipeline: health and snapshot endpoints, calibration, settings, the event
// log, a live snapshot WebSocket and an MJPEG camera preview.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// Calibrator captures the neutral pose from the most recent raw landmark
// frame. It reports false when no hand is visible.
type Calibrator interface {
	CalibrateNeutral() bool
}

// Config holds the server configuration. Nil fields disable their routes.
type Config struct {
	Store      *store.Store
	Engine     *gesture.Engine
	Camera     capture.Camera
	Calibrator Calibrator

	// OnSettingsChanged is invoked after settings are persisted so the
	// running pipeline can apply them.
	OnSettingsChanged func(changed map[string]string)
}

// Server is the HTTP handler for the Mudra API.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Engine != nil {
		s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
		s.mux.Handle("/api/ws", NewSnapshotHandler(s.config.Engine))
	}
	if s.config.Calibrator != nil {
		s.mux.HandleFunc("/api/calibrate", s.handleCalibrate)
	}
	if s.config.Store != nil {
		s.mux.HandleFunc("/api/settings", s.handleSettings)
		s.mux.HandleFunc("/api/events", s.handleEvents)
	}
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleSnapshot returns the engine's current gesture snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.Engine.Read())
}

// handleCalibrate captures the neutral pose. Responds 409 when no hand is
// visible; the client may retry freely.
func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.config.Calibrator.CalibrateNeutral() {
		writeError(w, http.StatusConflict, "no hand visible")
		return
	}

	resp := map[string]interface{}{"status": "calibrated"}
	if s.config.Engine != nil {
		resp["calibration"] = s.config.Engine.Calibration()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSettings reads or updates persisted settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.config.Store.Settings()

	switch r.Method {
	case http.MethodGet:
		all, err := settings.All()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, all)

	case http.MethodPut:
		var changed map[string]string
		if err := json.NewDecoder(r.Body).Decode(&changed); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings payload")
			return
		}
		for key, value := range changed {
			if err := settings.Set(key, value); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to save settings")
				return
			}
		}
		if s.config.OnSettingsChanged != nil {
			s.config.OnSettingsChanged(changed)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEvents returns the most recent logged gesture events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := s.config.Store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

package app

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-app-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	st, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	st := newTestStore(t)
	cfg := config.Default()
	a := New(&cfg, st)
	a.SetDetector(detector.NewMockDetector())

	return a, st
}

func TestApp_EnabledPersists(t *testing.T) {
	a, st := newTestApp(t)

	if !a.IsEnabled() {
		t.Fatal("app should default to enabled")
	}

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) should disable the app")
	}
	if st.Settings().GetBool(store.SettingEnabled, true) {
		t.Error("disabled state should be persisted")
	}

	// A fresh app over the same store starts disabled.
	cfg := config.Default()
	b := New(&cfg, st)
	if b.IsEnabled() {
		t.Error("restored app should honor the persisted enabled flag")
	}
}

func TestApp_CalibrateNeutral(t *testing.T) {
	a, _ := newTestApp(t)

	if a.CalibrateNeutral() {
		t.Error("calibration should fail with no hand seen yet")
	}

	a.ingest([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	if !a.CalibrateNeutral() {
		t.Fatal("calibration should succeed with a visible hand")
	}

	if a.Engine().Calibration().HandBaseline <= 0 {
		t.Error("expected a captured hand baseline")
	}
}

func TestApp_RestoredYawSensitivityDrivesBothAxes(t *testing.T) {
	st := newTestStore(t)
	if err := st.Settings().SetFloat(store.SettingYawSensitivity, 3.0); err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}

	cfg := config.Default()
	a := New(&cfg, st)
	a.SetDetector(detector.NewMockDetector())

	// A pure pitch step through the restored mapper: the polar angle must
	// move at 3x the default rate, not 1x.
	a.Mapper().Apply(gesture.Snapshot{Mode: gesture.ModeOrbit, Pitch: 0.01}, 0.016)

	pos := a.OrbitCamera().Position()
	theta := math.Acos(pos.Y / a.OrbitCamera().Distance())
	got := math.Abs(theta - math.Pi/2)
	want := 0.01 * 3.0 * 0.016
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected polar step %f from restored sensitivity, got %f", want, got)
	}
}

func TestApp_ApplySettings(t *testing.T) {
	a, _ := newTestApp(t)

	a.ApplySettings(map[string]string{store.SettingEnabled: "false"})
	if a.IsEnabled() {
		t.Error("applying control.enabled=false should disable the app")
	}

	a.ApplySettings(map[string]string{store.SettingEnabled: "true"})
	if !a.IsEnabled() {
		t.Error("applying control.enabled=true should re-enable the app")
	}
}

func TestApp_PipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline test that requires GoCV Mat creation")
	}

	a, st := newTestApp(t)

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.ClosedFistLandmarks()})
	a.SetDetector(mock)

	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop()

	// A stable fist must commit Zoom and start pulling the camera in.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snap := a.Engine().Read()
		if snap.Mode == gesture.ModeZoom && a.OrbitCamera().Distance() < 10 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	snap := a.Engine().Read()
	if snap.Mode != gesture.ModeZoom {
		t.Fatalf("expected Zoom mode from a held fist, got %v", snap.Mode)
	}
	if dist := a.OrbitCamera().Distance(); dist >= 10 {
		t.Errorf("expected the camera to zoom in, distance still %f", dist)
	}

	// A two-finger gesture emits the listen toggle, which lands in the
	// event log.
	mock.SetHands([]detector.HandLandmarks{detector.TwoFingersLandmarks()})

	deadline = time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		events, err := st.Events().Recent(10)
		if err == nil && len(events) > 0 {
			if events[0].Name != gesture.EventListenToggle {
				t.Errorf("expected %q event, got %q", gesture.EventListenToggle, events[0].Name)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("no listen toggle event was logged")
}

func TestApp_StartStopIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline test that requires GoCV Mat creation")
	}

	a, _ := newTestApp(t)

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Errorf("second Start should be a no-op: %v", err)
	}

	a.Stop()
	a.Stop() // second Stop must not panic
}

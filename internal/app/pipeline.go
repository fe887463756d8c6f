package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// runDetection is the detection loop. It reads camera frames, gates them on
// motion, runs hand detection and feeds the engine. The cadence drops to
// IdleFPS once the motion gate has been quiet past IdleTimeout, so a still
// scene doesn't keep the landmark model busy.
func (a *App) runDetection(stop <-chan struct{}) {
	defer a.wg.Done()

	active := true
	interval := time.Second / ActiveFPS
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			a.ingest(nil)
			continue
		}

		frame, err := a.Camera().ReadFrame()
		if err != nil {
			a.ingest(nil)
			continue
		}

		moving := a.motion.Observe(frame)

		if moving && !active {
			active = true
			ticker.Reset(time.Second / ActiveFPS)
			log.Println("Detection switched to active rate")
		} else if active && !moving && a.motion.QuietFor() > IdleTimeout {
			active = false
			ticker.Reset(time.Second / IdleFPS)
			log.Println("Detection switched to idle rate")
		}

		hands, err := a.Detector().Detect(frame)
		frame.Close()
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			a.ingest(nil)
			continue
		}

		a.ingest(hands)
	}
}

// ingest records the raw hands for calibration and feeds the engine.
func (a *App) ingest(hands []detector.HandLandmarks) {
	a.mu.Lock()
	a.lastHands = hands
	a.mu.Unlock()

	a.engine.Ingest(hands, a.nowMs())
}

// runRender applies the current snapshot to the camera at the render rate.
func (a *App) runRender(stop <-chan struct{}) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / RenderFPS)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.mapper.Apply(a.engine.Read(), dt)
		}
	}
}

// drainEvents delivers engine events to the action runner and the event
// log.
func (a *App) drainEvents(stop <-chan struct{}) {
	defer a.wg.Done()

	for {
		select {
		case <-stop:
			return
		case ev := <-a.engine.Events():
			log.Printf("Gesture event: %s (%s)", ev.Name, ev.ID)

			if a.store != nil {
				err := a.store.Events().Append(&store.Event{
					ID:          ev.ID,
					Name:        ev.Name,
					TimestampMs: ev.TimestampMs,
				})
				if err != nil {
					log.Printf("Failed to log event: %v", err)
				}
			}

			if _, err := a.actions.Run(ev); err != nil && !errors.Is(err, action.ErrNoCommand) {
				log.Printf("Action for %s failed: %v", ev.Name, err)
			}
		}
	}
}

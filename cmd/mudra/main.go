package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.config/mudra/config.toml)")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Mudra - Gesture Camera Control")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(cfg, st)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	srv := server.New(server.Config{
		Store:             st,
		Engine:            a.Engine(),
		Camera:            a.Camera(),
		Calibrator:        a,
		OnSettingsChanged: a.ApplySettings,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Bind)
		if err := srv.ListenAndServe(cfg.Server.Bind); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnCalibrate(func() {
		if !a.CalibrateNeutral() {
			log.Println("Calibration failed: no hand visible")
		}
	})
	t.OnQuit(func() {
		a.Stop()
	})
	t.Run()
}

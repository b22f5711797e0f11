// Package main provides the entry point for the NIfTI Viewer application.
package main

import (
	"flag"
	"log"

	"nifti-viewer/internal/config"
	"nifti-viewer/internal/version"
	"nifti-viewer/internal/viewer"
	"nifti-viewer/ui/mainwindow"

	"fyne.io/fyne/v2/app"
)

const appTitle = "NIfTI Viewer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	configPath := flag.String("config", "", "Path to viewer config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Config error, using defaults: %v", err)
		cfg = config.Default()
	}

	fyneApp := app.NewWithID("io.niftiviewer.app")

	state := viewer.NewState()
	for _, p := range viewer.Planes {
		state.SetZoom(p, cfg.Display.DefaultZoom)
	}
	playback := viewer.NewPlaybackController(state, cfg.PlaybackInterval())

	win := mainwindow.New(fyneApp, state, playback, cfg)

	// A volume path on the command line loads immediately.
	if args := flag.Args(); len(args) > 0 {
		win.LoadPath(args[0])
	}

	win.ShowAndRun()
}

// Package main is the production entry point for Ambience.
//
// Ambience follows the currently playing track and turns its cover art and
// audio descriptors into a live colour theme and a procedural visualizer:
// - Polls a playback source (Spotify, or a scripted demo source)
// - Extracts a 26 colour palette from the artwork
// - Animates one of six renderers driven by tempo and energy
// - Serves the live palette over HTTP and websockets for other tools
//
// Build:
//
//	go build -o build/ambience ./cmd
//
// Run:
//
//	SPOTIFY_CLIENT_ID=... SPOTIFY_CLIENT_SECRET=... SPOTIFY_REFRESH_TOKEN=... ./build/ambience
//	./build/ambience -mock
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tejashwikalptaru/ambience/internal/app"
)

func main() {
	config := app.DefaultConfig()

	mock := flag.Bool("mock", config.UseMockPlayback, "use the scripted demo source instead of Spotify")
	readout := flag.String("readout", config.ReadoutAddr, "readout server address, empty to disable")
	fps := flag.Int("fps", config.FPS, "visualizer frame rate")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	config.UseMockPlayback = *mock
	config.ReadoutAddr = *readout
	config.FPS = *fps

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		fmt.Println("Shutdown complete")
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

// FILE: lixenwraith/cosima/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/cosima"
	"github.com/lixenwraith/cosima/sky"
	"go.uber.org/zap"
)

const sourceText = `# Vela pulsar, legacy layout
Version 1
Geometry detector.geo.setup
PhysicsListEM Livermore
StoreSimulationInfo true 1
PreTriggerMode everyevent

Run Sim
Sim.FileName output
Sim.OrientationSky Galactic Fixed
Sim.Time 10
Sim.Source Vela

Vela.ParticleType 1
Vela.Beam FarFieldPointSource
Vela.Orientation Galactic Fixed -21.6 44.6
Vela.Spectrum Mono 511
Vela.Flux 1.5
`

func main() {
	dir, err := os.MkdirTemp("", "cosima-example-")
	if err != nil {
		log.Fatalf("❌ Failed to create work directory: %v", err)
	}
	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.RemoveAll(dir)
	}()

	sourcePath := filepath.Join(dir, "vela.source")

	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a source file to disk for the program to read.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Writing the source file...")
	if err := os.WriteFile(sourcePath, []byte(sourceText), 0644); err != nil {
		log.Fatalf("❌ Failed to write source file: %v", err)
	}
	log.Printf("✅ Source file written to %s.", sourcePath)

	// =========================================================================
	// PART 2: LOADING WITH THE BUILDER
	// Substring matching for the legacy layout, validators, a debug logger.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Loading with the Builder...")

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	f, err := cosima.NewBuilder().
		WithFile(sourcePath).
		WithMatchMode(cosima.MatchSubstring).
		WithLogger(logger).
		WithValidator(cosima.RequireCoordinate).
		WithValidator(cosima.RequireNumericRun).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Printf("✅ Loaded %s.", f.Run())
	fmt.Println(f.ListAllParams().Grid())

	// =========================================================================
	// PART 3: MOVING THE SOURCE
	// Point the source at the Crab, given in equatorial coordinates.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Moving the source...")

	crab := sky.Equatorial{RA: 83.633, Dec: 22.0145}
	before, _ := f.Source().Coordinate()
	if err := f.SetCoordinate(crab); err != nil {
		log.Fatalf("❌ Failed to set coordinate: %v", err)
	}
	after, _ := f.Source().Coordinate()
	log.Printf("   %s -> %s (moved %.1f°)", before, after, sky.Separation(before, after))
	log.Printf("✅ Orientation is now %q.", f.Source().Orientation)

	// =========================================================================
	// PART 4: SAVING
	// The plain table and a TOML snapshot, both loadable again.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Saving...")

	savedPath := filepath.Join(dir, "crab.source")
	snapshotPath := filepath.Join(dir, "crab.toml")
	if err := f.Save(savedPath); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}
	if err := f.SaveSnapshot(snapshotPath); err != nil {
		log.Fatalf("❌ Snapshot failed: %v", err)
	}
	data, _ := os.ReadFile(snapshotPath)
	log.Printf("✅ Saved %s and %s:\n%s", filepath.Base(savedPath), filepath.Base(snapshotPath), data)

	// =========================================================================
	// PART 5: WATCHING
	// Edit the saved file and receive the reloaded parameters.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 5: Watching for changes...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w, err := cosima.Watch(ctx, savedPath, cosima.DefaultLoadOptions(), cosima.DefaultWatchOptions())
	if err != nil {
		log.Fatalf("❌ Watch failed: %v", err)
	}
	defer w.Stop()
	events := w.Subscribe()

	reloaded := w.Current()
	reloaded.Run().Time = "3600"
	if err := reloaded.Save(savedPath); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}

	select {
	case event := <-events:
		if event.Err != nil {
			log.Fatalf("❌ Reload failed: %v", event.Err)
		}
		d, _ := event.File.Run().Duration()
		log.Printf("✅ Reloaded: run time is now %.0f s.", d)
	case <-ctx.Done():
		log.Println("⚠️  No change seen before the deadline.")
	}
}

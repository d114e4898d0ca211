package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mmo-meshtools/internal/batch"
	"mmo-meshtools/internal/config"
	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/meshio"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	inputDir := flag.String("input", "", "Directory of source meshes")
	outputDir := flag.String("output", "", "Output directory (default: <input>/collision)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	level := flag.Bool("level", false, "Write bare triangle lists without declaration or root element")
	object := flag.String("object", "", "Object to export from each file (default: first object)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Object:    *object,
		Level:     *level,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input directory. Use -input flag or a config file.")
		os.Exit(1)
	}

	sources, err := batch.Discover(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning input: %v\n", err)
		os.Exit(1)
	}
	if len(sources) == 0 {
		fmt.Println("No meshes to export.")
		os.Exit(0)
	}

	runID := uuid.New()
	logging.Info("batch export",
		"run", runID,
		"files", len(sources),
		"workers", cfg.Workers,
		"output", cfg.OutputDir,
	)

	start := time.Now()

	results := batch.Run(batch.Config{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Object:    cfg.Object,
		Load:      meshio.Options{Encoding: cfg.Encoding},
		Options:   cfg.CollisionOptions(),
		Atomic:    *cfg.Atomic,
		Workers:   cfg.Workers,
		Progress:  2 * time.Second,
	}, sources)

	elapsed := time.Since(start)

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}

	logging.Info("done",
		"exported", len(results)-len(failed),
		"total", len(results),
		"elapsed", fmt.Sprintf("%.1fs", elapsed.Seconds()),
	)

	if len(failed) > 0 {
		limit := min(len(failed), 20)
		for _, r := range failed[:limit] {
			logging.Error("export failed", "source", r.Source, "err", r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batch.BuildManifest(runID, cfg.OutputDir, results)); err != nil {
		logging.Warn("manifest write failed", "err", err)
	} else {
		logging.Info("manifest written", "path", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}

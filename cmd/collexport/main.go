package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mmo-meshtools/internal/config"
	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/meshio"
	"mmo-meshtools/internal/ops"
	"mmo-meshtools/internal/scene"
	"mmo-meshtools/internal/watch"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	in := flag.String("in", "", "Source mesh (.obj or .stl)")
	out := flag.String("out", "", "Collision XML path (default: remembered per scene, then $TMPDIR/collision.xml)")
	object := flag.String("object", "", "Object to export (default: first object in the file)")
	props := flag.String("props", "", "Scene properties file (default: user config dir)")
	level := flag.Bool("level", false, "Write a bare triangle list without declaration or root element")
	atomicWrite := flag.Bool("atomic", true, "Write through a temp file and rename")
	precision := flag.Int("precision", -1, "Decimal places for coordinates (-1: shortest exact)")
	encoding := flag.String("encoding", "", "Text encoding of OBJ input (default: utf-8)")
	watchMode := flag.Bool("watch", false, "Re-export whenever the source changes")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	flags := config.Flags{
		ExportPath:     *out,
		PropertiesFile: *props,
		Encoding:       *encoding,
		Object:         *object,
		Level:          *level,
		LogLevel:       *logLevel,
	}
	if set["precision"] {
		flags.Precision = precision
	}
	cfg.Resolve(flags)
	if set["atomic"] {
		cfg.Atomic = atomicWrite
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := scene.LoadProperties(cfg.PropertiesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene properties: %v\n", err)
		os.Exit(1)
	}

	if _, err := export(cfg, *in, store); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		if !*watchMode {
			os.Exit(1)
		}
	}

	if !*watchMode {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("watching for changes", "path", *in)
	err = watch.Run(ctx, []string{*in}, 200*time.Millisecond, func(changed []string) error {
		logging.Debug("source changed", "files", changed)
		_, err := export(cfg, *in, store)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// export loads in, exports its active mesh and saves the remembered path to
// store. cfg must be resolved.
func export(cfg config.Config, in string, store *scene.Properties) (ops.ExportReport, error) {
	sc, err := meshio.Load(in, meshio.Options{Encoding: cfg.Encoding})
	if err != nil {
		return ops.ExportReport{}, err
	}
	sc.Props = store
	if cfg.Object != "" {
		if err := sc.SetActive(cfg.Object); err != nil {
			return ops.ExportReport{}, err
		}
	}

	rep, err := ops.ExportCollision(sc, ops.ExportRequest{
		Path:    cfg.ExportPath,
		Options: cfg.CollisionOptions(),
		Atomic:  *cfg.Atomic,
	})
	if err != nil {
		return ops.ExportReport{}, err
	}
	if err := store.Save(); err != nil {
		logging.Warn("scene properties not saved", "err", err)
	}

	logging.Info("exported collision",
		"object", rep.Object,
		"faces", rep.Faces,
		"triangles", rep.Triangles,
		"path", rep.Path,
	)
	return rep, nil
}

// errorLine formats err for stderr. Every no-active-mesh case, including a
// mesh without UVs, is reported with one fixed message.
func errorLine(err error) string {
	if ops.IsNoActiveMesh(err) {
		return "Error: no active mesh object"
	}
	return fmt.Sprintf("Error: %v", err)
}

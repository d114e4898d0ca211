package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"mmo-meshtools/internal/config"
	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/meshio"
	"mmo-meshtools/internal/objfile"
	"mmo-meshtools/internal/ops"
	"mmo-meshtools/internal/texture"
	"mmo-meshtools/internal/uvedit"
	"mmo-meshtools/internal/uvpreview"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	in := flag.String("in", "", "Source OBJ with texture coordinates")
	out := flag.String("out", "", "Output OBJ (default: overwrite -in)")
	object := flag.String("object", "", "Object to edit (default: first object)")
	activeFace := flag.Int("active-face", -1, "Index of the face whose UVs are copied")
	selection := flag.String("select", "all", "Faces to receive the UVs, e.g. \"all\" or \"0,2-5\"")
	preview := flag.String("preview", "", "Write a WebP preview of the UV layout to this path")
	texturePath := flag.String("texture", "", "Texture drawn under the preview")
	size := flag.Int("size", 0, "Preview size in pixels (default: 512)")
	encoding := flag.String("encoding", "", "Text encoding of OBJ input (default: utf-8)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = *in
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
	cfg.Resolve(config.Flags{Encoding: *encoding, Object: *object, LogLevel: *logLevel})
	if *size > 0 {
		cfg.PreviewSize = *size
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *in, *out, *activeFace, *selection, *preview, *texturePath); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats err for stderr. Every no-active-mesh case, including a
// mesh without UVs, is reported with one fixed message.
func errorLine(err error) string {
	if ops.IsNoActiveMesh(err) {
		return "Error: no active mesh object"
	}
	return fmt.Sprintf("Error: %v", err)
}

// run collapses the UVs of the selected faces of in onto the active face and
// writes the scene to out, plus an optional WebP preview.
func run(cfg config.Config, in, out string, activeFace int, selection, preview, texturePath string) error {
	sc, err := meshio.Load(in, meshio.Options{Encoding: cfg.Encoding})
	if err != nil {
		return err
	}
	if cfg.Object != "" {
		if err := sc.SetActive(cfg.Object); err != nil {
			return err
		}
	}

	m, err := sc.ActiveMesh()
	if err != nil {
		return err
	}
	sel, err := uvedit.ParseSelection(selection, len(m.Faces))
	if err != nil {
		return err
	}
	m.Select(sel)
	m.ActiveFace = activeFace

	rep, err := ops.CollapseUV(sc)
	if err != nil {
		return err
	}
	if err := objfile.WriteFile(out, sc); err != nil {
		return err
	}
	logging.Info("uvs collapsed",
		"object", rep.Object,
		"active", rep.ActiveFace,
		"changed", rep.Changed,
		"path", out,
	)

	if preview == "" {
		return nil
	}

	var tex *image.NRGBA
	if texturePath != "" {
		tex, err = texture.Load(texturePath)
		if err != nil {
			return err
		}
	}
	err = uvpreview.WriteFile(preview, m, uvpreview.Options{
		Size:        cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Texture:     tex,
		Style:       uvpreview.DefaultStyle,
	})
	if err != nil {
		return err
	}
	logging.Info("preview written", "path", preview)
	return nil
}

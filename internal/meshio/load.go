package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"mmo-meshtools/internal/objfile"
	"mmo-meshtools/internal/scene"
	"mmo-meshtools/internal/stl"
)

// Options tunes how source files are read.
type Options struct {
	Encoding string // text encoding of OBJ files, see objfile.Decoder
}

// Supported reports whether path has a loadable mesh extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".stl":
		return true
	}
	return false
}

// Load reads a mesh file into a scene named after the file stem.
func Load(path string, opts Options) (*scene.Scene, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		dec, err := objfile.Decoder(opts.Encoding)
		if err != nil {
			return nil, err
		}
		return objfile.ReadFile(path, dec)
	case ".stl":
		m, err := stl.ReadFile(path, name)
		if err != nil {
			return nil, err
		}
		s := scene.New(name)
		s.Add(&scene.Object{Name: name, Type: scene.TypeMesh, Mesh: m})
		return s, nil
	}
	return nil, fmt.Errorf("meshio: unsupported file type %s", path)
}

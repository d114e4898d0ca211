package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ExportPathKey is the scene property remembering the last export path.
const ExportPathKey = "mmo_collision_export_file"

// DefaultExportPath is used when neither a flag nor a property names a path.
func DefaultExportPath() string {
	return filepath.Join(os.TempDir(), "collision.xml")
}

// Properties is a per-scene string store persisted as TOML:
//
//	[scenes.level01]
//	mmo_collision_export_file = "/tmp/collision.xml"
type Properties struct {
	path string
	doc  propertiesFile
}

type propertiesFile struct {
	Scenes map[string]map[string]string `toml:"scenes"`
}

// LoadProperties reads the store at path. A missing file yields an empty store.
func LoadProperties(path string) (*Properties, error) {
	p := &Properties{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &p.doc); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return p, nil
}

// Path returns the backing file, empty for an in-memory store.
func (p *Properties) Path() string { return p.path }

// Get returns the property key of scene.
func (p *Properties) Get(scene, key string) (string, bool) {
	v, ok := p.doc.Scenes[scene][key]
	return v, ok
}

// Set stores the property key of scene.
func (p *Properties) Set(scene, key, value string) {
	if p.doc.Scenes == nil {
		p.doc.Scenes = make(map[string]map[string]string)
	}
	if p.doc.Scenes[scene] == nil {
		p.doc.Scenes[scene] = make(map[string]string)
	}
	p.doc.Scenes[scene][key] = value
}

// Save writes the store back to its file. In-memory stores are a no-op.
func (p *Properties) Save() error {
	if p.path == "" {
		return nil
	}
	data, err := toml.Marshal(p.doc)
	if err != nil {
		return fmt.Errorf("scene: encode properties: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("scene: mkdir for %s: %w", p.path, err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("scene: rename %s: %w", p.path, err)
	}
	return nil
}

// Prop returns a property of s, or def when unset or when s has no store.
func (s *Scene) Prop(key, def string) string {
	if s.Props == nil {
		return def
	}
	if v, ok := s.Props.Get(s.Name, key); ok && v != "" {
		return v
	}
	return def
}

// SetProp stores a property of s. A scene without a store gets an in-memory one.
func (s *Scene) SetProp(key, value string) {
	if s.Props == nil {
		s.Props = &Properties{}
	}
	s.Props.Set(s.Name, key, value)
}

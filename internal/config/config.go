package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mmo-meshtools/internal/collision"
)

// Config holds all configurable paths and export settings.
type Config struct {
	// Paths
	InputDir       string `json:"input_dir" toml:"input_dir"`
	OutputDir      string `json:"output_dir" toml:"output_dir"`
	ExportPath     string `json:"export_path" toml:"export_path"`
	PropertiesFile string `json:"properties_file" toml:"properties_file"`

	// Source
	Encoding string `json:"encoding" toml:"encoding"`
	Object   string `json:"object" toml:"object"`

	// Output format. Pointers distinguish "unset" from an explicit false.
	Declaration *bool  `json:"declaration" toml:"declaration"`
	RootElement *bool  `json:"root_element" toml:"root_element"`
	Indent      string `json:"indent" toml:"indent"`
	Precision   *int   `json:"precision" toml:"precision"`
	Atomic      *bool  `json:"atomic" toml:"atomic"`

	// UV preview
	PreviewSize int `json:"preview_size" toml:"preview_size"`
	Supersample int `json:"supersample" toml:"supersample"`

	Workers  int    `json:"workers" toml:"workers"`
	LogLevel string `json:"log_level" toml:"log_level"`
}

// Load reads a JSON or TOML (by extension) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir       string
	OutputDir      string
	ExportPath     string
	PropertiesFile string
	Encoding       string
	Object         string
	Level          bool // bare triangle list, no declaration or root
	Precision      *int // nil keeps the file/default value
	Workers        int
	LogLevel       string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.ExportPath != "" {
		c.ExportPath = flags.ExportPath
	}
	if flags.PropertiesFile != "" {
		c.PropertiesFile = flags.PropertiesFile
	}
	if flags.Encoding != "" {
		c.Encoding = flags.Encoding
	}
	if flags.Object != "" {
		c.Object = flags.Object
	}
	if flags.Level {
		c.Declaration = boolPtr(false)
		c.RootElement = boolPtr(false)
	}
	if flags.Precision != nil {
		p := *flags.Precision
		c.Precision = &p
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	// Resolve relative paths against the input dir
	if c.InputDir != "" && c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = filepath.Join(c.InputDir, "collision")
	}
	if c.PropertiesFile == "" {
		c.PropertiesFile = defaultPropertiesFile()
	}

	// Defaults for export settings
	def := collision.DefaultOptions()
	if c.Declaration == nil {
		c.Declaration = boolPtr(def.Declaration)
	}
	if c.RootElement == nil {
		c.RootElement = boolPtr(def.Root)
	}
	if c.Indent == "" {
		c.Indent = def.Indent
	}
	if c.Precision == nil {
		p := def.Precision
		c.Precision = &p
	}
	if c.Atomic == nil {
		c.Atomic = boolPtr(true)
	}

	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// CollisionOptions returns the writer options described by c.
// Call Resolve first.
func (c *Config) CollisionOptions() collision.Options {
	return collision.Options{
		Declaration: *c.Declaration,
		Root:        *c.RootElement,
		Indent:      c.Indent,
		Precision:   *c.Precision,
	}
}

func defaultPropertiesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), "meshtools-scenes.toml")
	}
	return filepath.Join(dir, "meshtools", "scenes.toml")
}

func boolPtr(b bool) *bool { return &b }

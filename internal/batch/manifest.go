package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID    uuid.UUID       `json:"run_id"`
	Created  time.Time       `json:"created"`
	Exported int             `json:"exported"`
	Failed   int             `json:"failed"`
	Entries  []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one source file in the output manifest.
type ManifestEntry struct {
	ID        string `json:"id,omitempty"`
	Source    string `json:"source"`
	Output    string `json:"output,omitempty"`
	Object    string `json:"object,omitempty"`
	Triangles int    `json:"triangles"`
	Error     string `json:"error,omitempty"`
}

// BuildManifest summarizes results. Output paths are made relative to outDir.
func BuildManifest(runID uuid.UUID, outDir string, results []Result) Manifest {
	m := Manifest{
		RunID:   runID,
		Created: time.Now().UTC(),
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{Source: r.Source, Triangles: r.Triangles, Error: r.Error}
		if r.Success {
			m.Exported++
			e.ID = r.ID.String()
			e.Object = r.Object
			e.Output = r.Output
			if rel, err := filepath.Rel(outDir, r.Output); err == nil {
				e.Output = rel
			}
		} else {
			m.Failed++
		}
		m.Entries[i] = e
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

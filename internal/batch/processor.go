package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mmo-meshtools/internal/collision"
	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/meshio"
	"mmo-meshtools/internal/ops"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir  string // sources are mirrored under OutputDir relative to this
	OutputDir string
	Object    string // active object name; empty means each file's first object
	Load      meshio.Options
	Options   collision.Options
	Atomic    bool
	Workers   int
	Progress  time.Duration // 0 disables the progress reporter
}

// Result holds the outcome of exporting one source file.
type Result struct {
	ID        uuid.UUID
	Source    string
	Output    string
	Object    string
	Triangles int
	Success   bool
	Error     string
}

// Discover lists every loadable mesh file under dir, sorted.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && meshio.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run exports all sources using a worker pool. Results keep source order.
func Run(cfg Config, sources []string) []Result {
	total := len(sources)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						logging.Info("exporting", "done", p, "total", total, "files/sec", fmt.Sprintf("%.1f", rate))
					}
				}
			}
		}()
	}

	// Worker pool
	outputs := planOutputs(cfg, sources)

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(cfg, sources[idx], outputs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range sources {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// output is a planned destination for one source.
type output struct {
	path     string
	conflict string // earlier source already writing path
}

// planOutputs maps every source to <OutputDir>/<dir relative to InputDir>/<stem>.xml.
// When two sources still land on the same file (wall.obj next to wall.stl)
// the first in source order keeps it and the others are marked conflicting.
func planOutputs(cfg Config, sources []string) []output {
	out := make([]output, len(sources))
	owner := make(map[string]string, len(sources))
	for i, src := range sources {
		rel := filepath.Base(src)
		if cfg.InputDir != "" {
			if r, err := filepath.Rel(cfg.InputDir, src); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		path := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".xml")
		out[i].path = path
		if prev, ok := owner[path]; ok {
			out[i].conflict = prev
			continue
		}
		owner[path] = src
	}
	return out
}

func processFile(cfg Config, src string, out output) Result {
	res := Result{
		Source: src,
		Output: out.path,
	}
	if out.conflict != "" {
		res.Error = fmt.Sprintf("output %s already written from %s", out.path, out.conflict)
		return res
	}

	sc, err := meshio.Load(src, cfg.Load)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if cfg.Object != "" {
		if err := sc.SetActive(cfg.Object); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	if err := os.MkdirAll(filepath.Dir(res.Output), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	rep, err := ops.ExportCollision(sc, ops.ExportRequest{
		Path:    res.Output,
		Options: cfg.Options,
		Atomic:  cfg.Atomic,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.ID = rep.ID
	res.Object = rep.Object
	res.Triangles = rep.Triangles
	res.Success = true
	return res
}

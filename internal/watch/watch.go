package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"mmo-meshtools/internal/logging"
)

// Func is called with the sorted set of paths that changed during one quiet
// period. A returned error is logged and watching continues.
type Func func(changed []string) error

// Run watches paths until ctx is cancelled. Each path may be a file or a
// directory. Files are watched through their parent directory so editors that
// replace files by rename are still seen.
func Run(ctx context.Context, paths []string, debounce time.Duration, fn Func) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		dir := abs
		if !isDir(abs) {
			files[abs] = true
			dir = filepath.Dir(abs)
		} else {
			dirs[abs] = true
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		logging.Debug("watching", "path", abs)
	}

	match := func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		return files[abs] || dirs[filepath.Dir(abs)]
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !match(e.Name) {
				continue
			}
			abs, _ := filepath.Abs(e.Name)
			pending[abs] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watch error", "err", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			if err := fn(changed); err != nil {
				logging.Error("rebuild failed", "err", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

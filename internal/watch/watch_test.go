package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "zone.obj")
	other := filepath.Join(dir, "notes.txt")
	os.WriteFile(target, []byte("v 0 0 0\n"), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{target}, 20*time.Millisecond, func(changed []string) error {
			got <- changed
			return nil
		})
	}()

	// The watcher is registered asynchronously; keep touching the file until
	// a batch arrives.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case changed := <-got:
			want, _ := filepath.Abs(target)
			if len(changed) != 1 || changed[0] != want {
				t.Fatalf("changed = %v, want [%s]", changed, want)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Run: %v", err)
			}
			return
		case <-tick.C:
			os.WriteFile(other, []byte("x"), 0644)
			os.WriteFile(target, []byte("v 1 0 0\n"), 0644)
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestRunMissingPath(t *testing.T) {
	err := Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "a.obj")}, time.Millisecond, func([]string) error { return nil })
	if err == nil {
		t.Fatal("Run succeeded on missing directory")
	}
}

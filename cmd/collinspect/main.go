package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"mmo-meshtools/internal/collision"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: collinspect <collision.xml>...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		// errors from ReadFile already name the file
		if err := inspect(os.Stdout, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// inspect prints the triangle count and bounds of one collision file.
func inspect(w io.Writer, path string) error {
	tris, err := collision.ReadFile(path)
	if err != nil {
		return err
	}

	s := collision.Summarize(tris)
	fmt.Fprintf(w, "%s: triangles=%d\n", path, s.Triangles)
	if s.Empty {
		return nil
	}
	b := s.Bounds
	fmt.Fprintf(w, "  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
	lo, hi := s.CubeBounds()
	fmt.Fprintf(w, "  Cube: [%.3f, %.3f]\n", lo, hi)
	return nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspectSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.xml")
	doc := `<collidable>
    <triangle>
        <vertex x="1" y="2" z="3"/>
        <vertex x="-4" y="0" z="0"/>
        <vertex x="0" y="5" z="0"/>
    </triangle>
</collidable>
`
	os.WriteFile(path, []byte(doc), 0644)

	var buf bytes.Buffer
	if err := inspect(&buf, path); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		path + ": triangles=1\n",
		"BBox: X[-4.000, 1.000] Y[0.000, 5.000] Z[0.000, 3.000]",
		"Cube: [-4.000, 5.000]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectErrorNamesFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	os.WriteFile(path, []byte("<triangle>\n<vertex x=\"0\"/>\n</triangle>\n"), 0644)

	err := inspect(&bytes.Buffer{}, path)
	if err == nil {
		t.Fatal("inspect succeeded on a two-vertex triangle")
	}
	if n := strings.Count(err.Error(), path); n != 1 {
		t.Fatalf("error %q names the file %d times; want 1", err, n)
	}
	if !strings.Contains(err.Error(), "a triangle must have 3 vertices") {
		t.Fatalf("error = %q", err)
	}
}

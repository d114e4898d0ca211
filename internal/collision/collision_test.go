package collision

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mmo-meshtools/internal/mesh"
)

var unitTri = mesh.Triangle{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func TestEncodeSingleTriangle(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []mesh.Triangle{unitTri}, DefaultOptions()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8" ?>
<collidable>
    <triangle>
        <vertex x="0" y="0" z="0"/>
        <vertex x="1" y="0" z="0"/>
        <vertex x="0" y="1" z="0"/>
    </triangle>
</collidable>
`
	if got := buf.String(); got != want {
		t.Fatalf("Encode output:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeLevelLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []mesh.Triangle{unitTri}, LevelOptions()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "<?xml") || strings.Contains(got, "collidable") {
		t.Fatalf("level output has framing:\n%s", got)
	}
	if strings.Contains(got, `<vertex "`) {
		t.Fatalf("level output has malformed vertex tag:\n%s", got)
	}
	if !strings.HasPrefix(got, "    <triangle>\n") {
		t.Fatalf("level output starts with %q", got[:min(len(got), 20)])
	}
}

func TestEncodeFixedPrecision(t *testing.T) {
	opts := DefaultOptions()
	opts.Precision = 3
	var buf bytes.Buffer
	tri := mesh.Triangle{{0.5, -2, 1.0 / 3}, {}, {}}
	if err := Encode(&buf, []mesh.Triangle{tri}, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `<vertex x="0.500" y="-2.000" z="0.333"/>`) {
		t.Fatalf("fixed precision output:\n%s", buf.String())
	}
}

func TestRoundTripExactValues(t *testing.T) {
	tris := []mesh.Triangle{
		unitTri,
		{{0.1, -3.25, 1e-7}, {123456.79, 0.3333333, -0}, {2.5e10, -1e-30, 7}},
		{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, tris, DefaultOptions()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n := strings.Count(buf.String(), "<triangle>"); n != len(tris) {
		t.Fatalf("triangle elements = %d; want %d", n, len(tris))
	}
	if n := strings.Count(buf.String(), "<vertex "); n != 3*len(tris) {
		t.Fatalf("vertex elements = %d; want %d", n, 3*len(tris))
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, tris) {
		t.Fatalf("Decode(Encode(tris)) = %v; want %v", got, tris)
	}
}

func TestDecodeBareDocument(t *testing.T) {
	var buf bytes.Buffer
	Encode(&buf, []mesh.Triangle{unitTri, unitTri}, LevelOptions())
	// a bare list has two top-level elements; wrap it the way a consumer would
	doc := "<root>" + buf.String() + "</root>"
	got, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
}

func TestDecodeTriangleVertexCount(t *testing.T) {
	doc := `<collidable>
  <triangle>
    <vertex x="0" y="0" z="0"/>
    <vertex x="1" y="0" z="0"/>
  </triangle>
</collidable>`
	_, err := Decode(strings.NewReader(doc))
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(err, ErrTriangleVertices) {
		t.Fatalf("Decode = %v; want ErrTriangleVertices", err)
	}
	if de.Line != 5 {
		t.Fatalf("DecodeError.Line = %d; want 5", de.Line)
	}
}

func TestDecodeBadCoordinate(t *testing.T) {
	doc := `<collidable><triangle><vertex x="zero" y="0" z="0"/></triangle></collidable>`
	if _, err := Decode(strings.NewReader(doc)); !errors.Is(err, ErrBadCoordinate) {
		t.Fatalf("Decode = %v; want ErrBadCoordinate", err)
	}
}

func TestDecodeMissingAttributeIsZero(t *testing.T) {
	doc := `<collidable><triangle><vertex x="2"/><vertex y="3"/><vertex z="4"/></triangle></collidable>`
	got, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := mesh.Triangle{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}}
	if got[0] != want {
		t.Fatalf("Decode = %v; want %v", got[0], want)
	}
}

func TestWriteFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	tris := []mesh.Triangle{unitTri, {{0.25, 0.5, 0.75}, {9, 8, 7}, {-1, -2, -3}}}

	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	if err := WriteFile(a, tris, DefaultOptions(), true); err != nil {
		t.Fatalf("WriteFile(a): %v", err)
	}
	if err := WriteFile(b, tris, DefaultOptions(), false); err != nil {
		t.Fatalf("WriteFile(b): %v", err)
	}
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Fatal("exports of the same triangles differ")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("dir has %d entries; want 2 (temp file left behind?)", len(entries))
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.xml")
	os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0644)

	if err := WriteFile(path, nil, DefaultOptions(), true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n<collidable>\n</collidable>\n"
	if string(data) != want {
		t.Fatalf("file = %q; want %q", data, want)
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "d.xml")
	for _, atomic := range []bool{true, false} {
		if err := WriteFile(path, nil, DefaultOptions(), atomic); err == nil {
			t.Fatalf("WriteFile(atomic=%v) into missing dir succeeded", atomic)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]mesh.Triangle{{{-2, 1, 1}, {3, 4, 1}, {1, 1, 5}}})
	if s.Triangles != 1 || s.Empty {
		t.Fatalf("Summarize = %+v", s)
	}
	lo, hi := s.CubeBounds()
	if lo != -2 || hi != 5 {
		t.Fatalf("CubeBounds = %v, %v; want -2, 5", lo, hi)
	}
	if lo, hi := Summarize(nil).CubeBounds(); lo != 0 || hi != 0 {
		t.Fatalf("empty CubeBounds = %v, %v", lo, hi)
	}
}

package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mmo-meshtools/internal/mesh"
)

func TestActiveMeshNoObjects(t *testing.T) {
	s := New("empty")
	if _, err := s.ActiveMesh(); !errors.Is(err, ErrNoActiveMesh) {
		t.Fatalf("ActiveMesh() = %v; want ErrNoActiveMesh", err)
	}
}

func TestActiveMeshWrongType(t *testing.T) {
	s := New("level")
	s.Add(&Object{Name: "spawn", Type: TypeEmpty})
	s.Add(&Object{Name: "ground", Type: TypeMesh, Mesh: mesh.New("ground")})

	_, err := s.ActiveMesh()
	if !errors.Is(err, ErrNoActiveMesh) {
		t.Fatalf("ActiveMesh() = %v; want ErrNoActiveMesh", err)
	}
	if !strings.Contains(err.Error(), "Empty") {
		t.Fatalf("error %q does not name the object type", err)
	}

	if err := s.SetActive("ground"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	m, err := s.ActiveMesh()
	if err != nil || m.Name != "ground" {
		t.Fatalf("ActiveMesh() = %v, %v", m, err)
	}

	if err := s.SetActive("missing"); err == nil {
		t.Fatal("SetActive(missing) succeeded")
	}
}

func TestObjectModeRestores(t *testing.T) {
	s := New("level")
	s.EditMode = true

	boom := errors.New("boom")
	err := s.ObjectMode(func() error {
		if s.EditMode {
			t.Fatal("still in edit mode inside ObjectMode")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ObjectMode = %v; want boom", err)
	}
	if !s.EditMode {
		t.Fatal("edit mode not restored")
	}

	s.EditMode = false
	s.ObjectMode(func() error { return nil })
	if s.EditMode {
		t.Fatal("edit mode switched on by ObjectMode")
	}
}

func TestPropertiesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.toml")

	p, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("LoadProperties(missing): %v", err)
	}
	if _, ok := p.Get("level01", ExportPathKey); ok {
		t.Fatal("fresh store has a value")
	}
	p.Set("level01", ExportPathKey, "/srv/zones/level01.xml")
	p.Set("level02", ExportPathKey, "/srv/zones/level02.xml")
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("LoadProperties: %v", err)
	}
	if v, _ := q.Get("level01", ExportPathKey); v != "/srv/zones/level01.xml" {
		t.Fatalf("Get(level01) = %q", v)
	}
	if v, _ := q.Get("level02", ExportPathKey); v != "/srv/zones/level02.xml" {
		t.Fatalf("Get(level02) = %q", v)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPropertiesParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[scenes\n"), 0644)
	if _, err := LoadProperties(path); err == nil {
		t.Fatal("LoadProperties(bad) succeeded")
	}
}

func TestSceneProp(t *testing.T) {
	s := New("level01")
	if got := s.Prop(ExportPathKey, "def"); got != "def" {
		t.Fatalf("Prop without store = %q; want def", got)
	}
	s.SetProp(ExportPathKey, "/tmp/a.xml")
	if got := s.Prop(ExportPathKey, "def"); got != "/tmp/a.xml" {
		t.Fatalf("Prop = %q; want /tmp/a.xml", got)
	}
	if err := s.Props.Save(); err != nil {
		t.Fatalf("Save on in-memory store: %v", err)
	}
}

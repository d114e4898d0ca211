package meshio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hut.obj")
	os.WriteFile(path, []byte("o Hut\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"), 0644)

	s, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := s.ActiveMesh()
	if err != nil {
		t.Fatalf("ActiveMesh: %v", err)
	}
	if s.Name != "hut" || m.Name != "Hut" || len(m.Faces) != 1 {
		t.Fatalf("scene %q mesh %q faces %d", s.Name, m.Name, len(m.Faces))
	}
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Rock.STL")
	src := "solid r\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid r\n"
	os.WriteFile(path, []byte(src), 0644)

	s, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := s.ActiveMesh()
	if err != nil || m.Name != "Rock" || len(m.Faces) != 1 {
		t.Fatalf("ActiveMesh = %+v, %v", m, err)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if Supported("scene.blend") {
		t.Fatal("Supported(.blend) = true")
	}
	if !Supported("a/B.OBJ") {
		t.Fatal("Supported(.OBJ) = false")
	}
	if _, err := Load("scene.blend", Options{}); err == nil {
		t.Fatal("Load(.blend) succeeded")
	}
	if _, err := Load("x.obj", Options{Encoding: "klingon"}); err == nil {
		t.Fatal("Load with unknown encoding succeeded")
	}
}

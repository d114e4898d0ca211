package mesh

import (
	"errors"
	"fmt"
)

var (
	ErrFaceArity   = errors.New("face must have 3 or 4 vertices")
	ErrVertexIndex = errors.New("vertex index out of range")
)

// FaceError reports a malformed face.
type FaceError struct {
	Face int
	Err  error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("mesh: face %d: %v", e.Face, e.Err)
}

func (e *FaceError) Unwrap() error { return e.Err }

// Triangulate splits a face into index triples.
// Triangles pass through unchanged; quads {a,b,c,d} become {a,b,c} and {c,d,a}.
func Triangulate(f Face) ([][3]int, error) {
	v := f.Verts
	switch len(v) {
	case 3:
		return [][3]int{{v[0], v[1], v[2]}}, nil
	case 4:
		return [][3]int{{v[0], v[1], v[2]}, {v[2], v[3], v[0]}}, nil
	default:
		return nil, fmt.Errorf("%w (got %d)", ErrFaceArity, len(v))
	}
}

// FaceTriangles resolves the triangles of face i to positions.
func (m *Mesh) FaceTriangles(i int) ([]Triangle, error) {
	idx, err := Triangulate(m.Faces[i])
	if err != nil {
		return nil, &FaceError{Face: i, Err: err}
	}

	tris := make([]Triangle, len(idx))
	for t, tri := range idx {
		for k, vi := range tri {
			if vi < 0 || vi >= len(m.Verts) {
				return nil, &FaceError{Face: i, Err: fmt.Errorf("%w: %d", ErrVertexIndex, vi)}
			}
			tris[t][k] = m.Verts[vi]
		}
	}
	return tris, nil
}

// EachTriangle calls fn for every triangle in face order.
// It stops at the first malformed face or the first error returned by fn.
func (m *Mesh) EachTriangle(fn func(Triangle) error) error {
	for i := range m.Faces {
		tris, err := m.FaceTriangles(i)
		if err != nil {
			return err
		}
		for _, t := range tris {
			if err := fn(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Triangles collects every triangle of the mesh.
func (m *Mesh) Triangles() ([]Triangle, error) {
	tris := make([]Triangle, 0, len(m.Faces)*2)
	err := m.EachTriangle(func(t Triangle) error {
		tris = append(tris, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tris, nil
}

// Validate checks every face for arity and vertex indices.
func (m *Mesh) Validate() error {
	for i := range m.Faces {
		if _, err := m.FaceTriangles(i); err != nil {
			return err
		}
	}
	return nil
}

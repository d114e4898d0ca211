package uvedit

import (
	"errors"
	"fmt"

	"mmo-meshtools/internal/mesh"
)

var (
	ErrNoFaceUV     = errors.New("mesh has no face UVs")
	ErrNoActiveFace = errors.New("mesh has no active face")
	ErrUVShape      = errors.New("face corner count differs from active face")
	ErrActiveUVs    = errors.New("active face UV count differs from its corner count")
)

// ShapeError reports a selected face that cannot take the active face's UVs.
type ShapeError struct {
	Face   int
	Have   int
	Active int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("uvedit: face %d: %v (%d corners, active face has %d)", e.Face, ErrUVShape, e.Have, e.Active)
}

func (e *ShapeError) Unwrap() error { return ErrUVShape }

// Collapse overwrites the UVs of every selected face with a copy of the
// active face's UVs and returns how many faces changed. All selected faces
// are checked before the first write, so an error leaves m untouched.
func Collapse(m *mesh.Mesh) (int, error) {
	if !m.HasFaceUV {
		return 0, ErrNoFaceUV
	}
	if m.ActiveFace < 0 || m.ActiveFace >= len(m.Faces) {
		return 0, ErrNoActiveFace
	}

	act := m.Faces[m.ActiveFace]
	if len(act.UVs) != len(act.Verts) {
		return 0, fmt.Errorf("uvedit: face %d: %w (%d UVs, %d corners)", m.ActiveFace, ErrActiveUVs, len(act.UVs), len(act.Verts))
	}

	targets := make([]int, 0, len(m.Faces))
	for i, f := range m.Faces {
		if !f.Selected || i == m.ActiveFace {
			continue
		}
		if len(f.Verts) != len(act.Verts) || len(f.UVs) != len(act.UVs) {
			return 0, &ShapeError{Face: i, Have: len(f.Verts), Active: len(act.Verts)}
		}
		targets = append(targets, i)
	}

	for _, i := range targets {
		uvs := make([]mesh.UV, len(act.UVs))
		copy(uvs, act.UVs)
		m.Faces[i].UVs = uvs
	}
	return len(targets), nil
}

package ops

import (
	"errors"
	"fmt"

	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/scene"
	"mmo-meshtools/internal/uvedit"
)

// CollapseReport summarizes a UV collapse.
type CollapseReport struct {
	Object     string
	ActiveFace int
	Changed    int
}

// CollapseUV copies the active face's UVs onto the selected faces of the
// active mesh. A mesh without face UVs is reported as no active mesh.
func CollapseUV(sc *scene.Scene) (CollapseReport, error) {
	m, err := sc.ActiveMesh()
	if err != nil {
		return CollapseReport{}, err
	}
	if !m.HasFaceUV {
		return CollapseReport{}, fmt.Errorf("%w: %w", scene.ErrNoActiveMesh, uvedit.ErrNoFaceUV)
	}

	rep := CollapseReport{Object: m.Name, ActiveFace: m.ActiveFace}
	err = sc.ObjectMode(func() error {
		n, err := uvedit.Collapse(m)
		if err != nil {
			return fmt.Errorf("ops: collapse %s: %w", m.Name, err)
		}
		rep.Changed = n
		return nil
	})
	if err != nil {
		return CollapseReport{}, err
	}

	logging.Debug("uv faces collapsed", "object", rep.Object, "active", rep.ActiveFace, "changed", rep.Changed)
	return rep, nil
}

// IsNoActiveMesh reports whether err is the user-facing "no active mesh" error.
func IsNoActiveMesh(err error) bool {
	return errors.Is(err, scene.ErrNoActiveMesh)
}

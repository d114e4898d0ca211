package ops

import (
	"fmt"

	"github.com/google/uuid"

	"mmo-meshtools/internal/collision"
	"mmo-meshtools/internal/logging"
	"mmo-meshtools/internal/mesh"
	"mmo-meshtools/internal/scene"
)

// ExportRequest describes one collision export.
type ExportRequest struct {
	Path    string // empty: the scene's remembered path, then the default
	Options collision.Options
	Atomic  bool
}

// ExportReport summarizes a finished export.
type ExportReport struct {
	ID        uuid.UUID
	Object    string
	Path      string
	Faces     int
	Triangles int
	Bounds    mesh.Extents
}

// ExportCollision writes the active mesh of sc as collision XML. The chosen
// path is remembered on the scene once an active mesh is found. Nothing is
// written when there is no active mesh or a face cannot be triangulated.
func ExportCollision(sc *scene.Scene, req ExportRequest) (ExportReport, error) {
	path := req.Path
	if path == "" {
		path = sc.Prop(scene.ExportPathKey, scene.DefaultExportPath())
	}

	m, err := sc.ActiveMesh()
	if err != nil {
		return ExportReport{}, err
	}
	sc.SetProp(scene.ExportPathKey, path)
	obj, _ := sc.ActiveObject()

	rep := ExportReport{ID: uuid.New(), Object: obj.Name, Path: path, Faces: len(m.Faces)}
	err = sc.ObjectMode(func() error {
		tris, err := m.Triangles()
		if err != nil {
			return fmt.Errorf("ops: export %s: %w", obj.Name, err)
		}
		if err := collision.WriteFile(path, tris, req.Options, req.Atomic); err != nil {
			return err
		}
		rep.Triangles = len(tris)
		rep.Bounds, _ = mesh.Bounds(tris)
		return nil
	})
	if err != nil {
		return ExportReport{}, err
	}

	logging.Debug("collision exported", "id", rep.ID, "object", rep.Object, "path", rep.Path, "triangles", rep.Triangles)
	return rep, nil
}

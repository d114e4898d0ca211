package scene

import (
	"errors"
	"fmt"

	"mmo-meshtools/internal/mesh"
)

// ErrNoActiveMesh is returned when there is no active object or the active
// object does not hold mesh data.
var ErrNoActiveMesh = errors.New("no active mesh object")

// ObjectType identifies what an object holds.
type ObjectType int

const (
	TypeMesh ObjectType = iota
	TypeEmpty
	TypeCurve
)

func (t ObjectType) String() string {
	switch t {
	case TypeMesh:
		return "Mesh"
	case TypeEmpty:
		return "Empty"
	case TypeCurve:
		return "Curve"
	}
	return fmt.Sprintf("ObjectType(%d)", int(t))
}

// Object is a named scene member. Curves and empties may still carry a Mesh
// holding their lines and points, but only TypeMesh objects are editable.
type Object struct {
	Name string
	Type ObjectType
	Mesh *mesh.Mesh
}

// Scene is a flat list of objects with one optional active object.
type Scene struct {
	Name     string
	Objects  []*Object
	Active   int // index into Objects, -1 for none
	EditMode bool
	Props    *Properties

	MaterialLibs []string // material library references of the source file
}

// New returns an empty scene with no active object.
func New(name string) *Scene {
	return &Scene{Name: name, Active: -1}
}

// Add appends obj and makes it active if nothing is active yet.
func (s *Scene) Add(obj *Object) {
	s.Objects = append(s.Objects, obj)
	if s.Active < 0 {
		s.Active = len(s.Objects) - 1
	}
}

// SetActive makes the object called name active.
func (s *Scene) SetActive(name string) error {
	for i, o := range s.Objects {
		if o.Name == name {
			s.Active = i
			return nil
		}
	}
	return fmt.Errorf("scene: no object named %q", name)
}

// ActiveObject returns the active object.
func (s *Scene) ActiveObject() (*Object, error) {
	if s.Active < 0 || s.Active >= len(s.Objects) {
		return nil, ErrNoActiveMesh
	}
	return s.Objects[s.Active], nil
}

// ActiveMesh returns the mesh of the active object.
func (s *Scene) ActiveMesh() (*mesh.Mesh, error) {
	obj, err := s.ActiveObject()
	if err != nil {
		return nil, err
	}
	if obj.Type != TypeMesh || obj.Mesh == nil {
		return nil, fmt.Errorf("%w: %q is %s", ErrNoActiveMesh, obj.Name, obj.Type)
	}
	return obj.Mesh, nil
}

// ObjectMode leaves edit mode for the duration of fn and restores the
// previous mode afterwards, whether or not fn fails.
func (s *Scene) ObjectMode(fn func() error) error {
	was := s.EditMode
	s.EditMode = false
	defer func() { s.EditMode = was }()
	return fn()
}

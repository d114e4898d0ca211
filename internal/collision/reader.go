package collision

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"mmo-meshtools/internal/mesh"
)

var (
	ErrTriangleVertices = errors.New("a triangle must have 3 vertices")
	ErrBadCoordinate    = errors.New("bad vertex coordinate")
)

// DecodeError reports a problem at a line of the input document.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("collision: line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads every <triangle> of a collision document. Elements other than
// triangle and vertex are ignored, so both framed and bare documents load.
func Decode(r io.Reader) ([]mesh.Triangle, error) {
	d := xml.NewDecoder(r)

	var (
		tris  []mesh.Triangle
		verts []mesh.Vec3
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("collision: parse: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "triangle":
				verts = verts[:0]
			case "vertex":
				v, err := parseVertex(el.Attr)
				if err != nil {
					line, _ := d.InputPos()
					return nil, &DecodeError{Line: line, Err: err}
				}
				verts = append(verts, v)
			}
		case xml.EndElement:
			if el.Name.Local != "triangle" {
				continue
			}
			if len(verts) != 3 {
				line, _ := d.InputPos()
				return nil, &DecodeError{Line: line, Err: ErrTriangleVertices}
			}
			tris = append(tris, mesh.Triangle{verts[0], verts[1], verts[2]})
		}
	}
	return tris, nil
}

func parseVertex(attrs []xml.Attr) (mesh.Vec3, error) {
	var v mesh.Vec3
	for _, a := range attrs {
		var dst *float32
		switch a.Name.Local {
		case "x":
			dst = &v.X
		case "y":
			dst = &v.Y
		case "z":
			dst = &v.Z
		default:
			continue
		}
		f, err := strconv.ParseFloat(a.Value, 32)
		if err != nil {
			return v, fmt.Errorf("%w %s=%q", ErrBadCoordinate, a.Name.Local, a.Value)
		}
		*dst = float32(f)
	}
	return v, nil
}

// ReadFile decodes the collision document at path.
func ReadFile(path string) ([]mesh.Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("collision: open %s: %w", path, err)
	}
	defer f.Close()

	tris, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tris, nil
}

// Summary describes a decoded collision set.
type Summary struct {
	Triangles int
	Bounds    mesh.Extents
	Empty     bool
}

// Summarize computes the triangle count and bounds of tris.
func Summarize(tris []mesh.Triangle) Summary {
	ext, ok := mesh.Bounds(tris)
	return Summary{Triangles: len(tris), Bounds: ext, Empty: !ok}
}

// CubeBounds returns the smallest and largest coordinate over all axes,
// the uniform cube a zone tree is built in. The origin is always included.
func (s Summary) CubeBounds() (lo, hi float32) {
	if s.Empty {
		return 0, 0
	}
	b := s.Bounds
	lo = min(0, b.Min.X, b.Min.Y, b.Min.Z)
	hi = max(0, b.Max.X, b.Max.Y, b.Max.Z)
	return lo, hi
}

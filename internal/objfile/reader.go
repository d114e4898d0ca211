package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"mmo-meshtools/internal/mesh"
	"mmo-meshtools/internal/scene"
)

// Decoder returns the text decoder for a source encoding name.
// An empty name or "utf-8" means no transcoding.
func Decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	}
	return nil, fmt.Errorf("objfile: unknown encoding %q", name)
}

// object collects the elements of one `o`/`g` block before compaction.
type object struct {
	name   string
	faces  []face
	lines  [][]corner
	points [][]corner
}

type face struct {
	corners  []corner
	material string
	smooth   string
	group    string
}

type corner struct {
	v, vt, vn int // absolute 0-based indices, vt and vn -1 when absent
}

// Read parses a Wavefront OBJ stream into a scene. Each `o` statement starts
// an object, as does a `g` statement that follows content. Objects with faces
// are meshes, objects holding only lines are curves, anything else is an empty.
// Normals, materials, smoothing groups, lines and points are kept on the mesh
// so Write can reproduce them.
func Read(r io.Reader, name string, dec *encoding.Decoder) (*scene.Scene, error) {
	if dec != nil {
		r = transform.NewReader(r, dec)
	}

	var (
		verts   []mesh.Vec3
		uvs     []mesh.UV
		normals []mesh.Vec3
		libs    []string
		objs    []*object
		cur     *object

		material, smooth, group string
	)
	current := func() *object {
		if cur == nil {
			cur = &object{name: name}
			objs = append(objs, cur)
		}
		return cur
	}
	corners := func(args []string) ([]corner, error) {
		cs := make([]corner, len(args))
		for i, a := range args {
			c, err := parseCorner(a, len(verts), len(uvs), len(normals))
			if err != nil {
				return nil, err
			}
			cs[i] = c
		}
		return cs, nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		args := fields[1:]
		rest := strings.Join(args, " ")

		switch fields[0] {
		case "v":
			v, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			verts = append(verts, v)
		case "vt":
			uv, err := parseUV(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			uvs = append(uvs, uv)
		case "vn":
			n, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			normals = append(normals, n)
		case "o", "g":
			n := rest
			if n == "" {
				n = name
			}
			if fields[0] == "g" {
				group = rest
				if cur != nil && cur.empty() {
					// a group right after `o` stays inside the named object
					continue
				}
			}
			cur = &object{name: n}
			objs = append(objs, cur)
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("objfile: line %d: face needs at least 3 corners", line)
			}
			cs, err := corners(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			o := current()
			o.faces = append(o.faces, face{corners: cs, material: material, smooth: smooth, group: group})
		case "l":
			if len(args) < 2 {
				return nil, fmt.Errorf("objfile: line %d: line needs at least 2 vertices", line)
			}
			cs, err := corners(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			o := current()
			o.lines = append(o.lines, cs)
		case "p":
			if len(args) == 0 {
				return nil, fmt.Errorf("objfile: line %d: point needs a vertex", line)
			}
			cs, err := corners(args)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			o := current()
			o.points = append(o.points, cs)
		case "usemtl":
			material = rest
		case "s":
			smooth = rest
		case "mtllib":
			libs = append(libs, rest)
		case "vp", "mg", "cstype", "deg", "curv", "parm", "end":
			// free-form geometry is not supported
		default:
			return nil, fmt.Errorf("objfile: line %d: unknown statement %q", line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("objfile: read: %w", err)
	}

	sn := scene.New(name)
	sn.MaterialLibs = libs
	for _, o := range objs {
		sn.Add(o.build(verts, uvs, normals))
	}
	return sn, nil
}

// ReadFile parses the OBJ file at path. The scene is named after the file stem.
func ReadFile(path string, dec *encoding.Decoder) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f, stem(path), dec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (o *object) empty() bool {
	return len(o.faces) == 0 && len(o.lines) == 0 && len(o.points) == 0
}

// build compacts the global vertex list down to the vertices o uses.
func (o *object) build(verts []mesh.Vec3, uvs []mesh.UV, normals []mesh.Vec3) *scene.Object {
	if o.empty() {
		return &scene.Object{Name: o.name, Type: scene.TypeEmpty}
	}

	m := mesh.New(o.name)
	local := make(map[int]int)
	vertIndices := func(cs []corner) []int {
		out := make([]int, len(cs))
		for i, c := range cs {
			li, ok := local[c.v]
			if !ok {
				li = len(m.Verts)
				local[c.v] = li
				m.Verts = append(m.Verts, verts[c.v])
			}
			out[i] = li
		}
		return out
	}
	uvsOf := func(cs []corner) []mesh.UV {
		out := make([]mesh.UV, len(cs))
		for i, c := range cs {
			if c.vt < 0 {
				return nil
			}
			out[i] = uvs[c.vt]
		}
		return out
	}
	normalsOf := func(cs []corner) []mesh.Vec3 {
		out := make([]mesh.Vec3, len(cs))
		for i, c := range cs {
			if c.vn < 0 {
				return nil
			}
			out[i] = normals[c.vn]
		}
		return out
	}

	m.HasFaceUV = len(o.faces) > 0
	for _, f := range o.faces {
		mf := mesh.Face{
			Verts:    vertIndices(f.corners),
			UVs:      uvsOf(f.corners),
			Normals:  normalsOf(f.corners),
			Material: f.material,
			Smooth:   f.smooth,
			Group:    f.group,
		}
		if mf.UVs == nil {
			m.HasFaceUV = false
		}
		m.Faces = append(m.Faces, mf)
	}
	for _, l := range o.lines {
		m.Lines = append(m.Lines, mesh.Polyline{Verts: vertIndices(l), UVs: uvsOf(l)})
	}
	for _, p := range o.points {
		m.Points = append(m.Points, vertIndices(p))
	}

	typ := scene.TypeEmpty
	switch {
	case len(o.faces) > 0:
		typ = scene.TypeMesh
	case len(o.lines) > 0:
		typ = scene.TypeCurve
	}
	return &scene.Object{Name: o.name, Type: typ, Mesh: m}
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", args[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(args []string) (mesh.Vec3, error) {
	f, err := parseFloats(args, 3)
	if err != nil {
		return mesh.Vec3{}, err
	}
	return mesh.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func parseUV(args []string) (mesh.UV, error) {
	if len(args) == 1 {
		args = append(args, "0")
	}
	f, err := parseFloats(args, 2)
	if err != nil {
		return mesh.UV{}, err
	}
	return mesh.UV{U: f[0], V: f[1]}, nil
}

// parseCorner parses v, v/vt, v/vt/vn or v//vn. Negative indices count back
// from the most recent element.
func parseCorner(s string, nv, nvt, nvn int) (corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return corner{}, fmt.Errorf("bad corner %q", s)
	}
	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return corner{}, fmt.Errorf("vertex %q: %w", s, err)
	}
	c := corner{v: v, vt: -1, vn: -1}
	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], nvt)
		if err != nil {
			return corner{}, fmt.Errorf("texcoord %q: %w", s, err)
		}
		c.vt = vt
	}
	if len(parts) > 2 && parts[2] != "" {
		vn, err := resolveIndex(parts[2], nvn)
		if err != nil {
			return corner{}, fmt.Errorf("normal %q: %w", s, err)
		}
		c.vn = vn
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i == 0 {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

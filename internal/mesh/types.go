package mesh

// Vec3 is a vertex position.
type Vec3 struct {
	X, Y, Z float32
}

// UV is a texture coordinate attached to one corner of a face.
type UV struct {
	U, V float32
}

// Face references 3 or 4 vertices of its mesh by index.
// UVs holds one coordinate per corner when the mesh carries face UVs.
// Normals, when set, also has one entry per corner.
type Face struct {
	Verts    []int
	UVs      []UV
	Normals  []Vec3
	Material string
	Smooth   string // smoothing group as written in the source, "" for none
	Group    string
	Selected bool
}

// Polyline is an open chain of vertices with optional per-vertex UVs.
type Polyline struct {
	Verts []int
	UVs   []UV
}

// Mesh holds the geometry of one object. Lines and Points are carried for
// round trips and take no part in triangulation.
type Mesh struct {
	Name       string
	Verts      []Vec3
	Faces      []Face
	Lines      []Polyline
	Points     [][]int
	ActiveFace int // -1 when no face is active
	HasFaceUV  bool
}

// Triangle is three vertex positions in winding order.
type Triangle [3]Vec3

// Extents is an axis-aligned bounding box.
type Extents struct {
	Min Vec3
	Max Vec3
}

// New returns an empty mesh with no active face.
func New(name string) *Mesh {
	return &Mesh{Name: name, ActiveFace: -1}
}

package mesh

// Selected returns the indices of the selected faces in order.
func (m *Mesh) Selected() []int {
	var sel []int
	for i, f := range m.Faces {
		if f.Selected {
			sel = append(sel, i)
		}
	}
	return sel
}

// Select replaces the selection with the given face indices.
// Indices outside the face list are ignored.
func (m *Mesh) Select(indices []int) {
	for i := range m.Faces {
		m.Faces[i].Selected = false
	}
	for _, i := range indices {
		if i >= 0 && i < len(m.Faces) {
			m.Faces[i].Selected = true
		}
	}
}

// SelectAll marks every face selected.
func (m *Mesh) SelectAll() {
	for i := range m.Faces {
		m.Faces[i].Selected = true
	}
}

// Bounds returns the extents of tris. ok is false when tris is empty.
func Bounds(tris []Triangle) (ext Extents, ok bool) {
	for i, t := range tris {
		for k, v := range t {
			if i == 0 && k == 0 {
				ext = Extents{Min: v, Max: v}
				continue
			}
			ext.Grow(v)
		}
	}
	return ext, len(tris) > 0
}

// Grow extends e to contain v.
func (e *Extents) Grow(v Vec3) {
	e.Min.X = min(e.Min.X, v.X)
	e.Min.Y = min(e.Min.Y, v.Y)
	e.Min.Z = min(e.Min.Z, v.Z)
	e.Max.X = max(e.Max.X, v.X)
	e.Max.Y = max(e.Max.Y, v.Y)
	e.Max.Z = max(e.Max.Z, v.Z)
}

package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"mmo-meshtools/internal/mesh"
	"mmo-meshtools/internal/scene"
)

// Write emits every object of s as Wavefront OBJ. Texture coordinates and
// normals are deduplicated per object. Material, smoothing and group
// statements are written whenever they change between faces, so a file read
// with Read comes back with the same bindings. Objects without geometry are
// written as bare `o` statements so their names survive a round trip.
func Write(w io.Writer, s *scene.Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", s.Name)
	for _, lib := range s.MaterialLibs {
		fmt.Fprintf(bw, "mtllib %s\n", lib)
	}

	var st faceState
	vBase, vtBase, vnBase := 0, 0, 0
	for _, obj := range s.Objects {
		fmt.Fprintf(bw, "o %s\n", obj.Name)
		m := obj.Mesh
		if m == nil {
			continue
		}
		for _, v := range m.Verts {
			fmt.Fprintf(bw, "v %s %s %s\n", ff(v.X), ff(v.Y), ff(v.Z))
		}

		uvIndex := make(map[mesh.UV]int)
		addUVs := func(n int, list []mesh.UV) {
			if len(list) != n {
				return
			}
			for _, uv := range list {
				if _, ok := uvIndex[uv]; ok {
					continue
				}
				uvIndex[uv] = len(uvIndex)
				fmt.Fprintf(bw, "vt %s %s\n", ff(uv.U), ff(uv.V))
			}
		}
		for _, f := range m.Faces {
			addUVs(len(f.Verts), f.UVs)
		}
		for _, l := range m.Lines {
			addUVs(len(l.Verts), l.UVs)
		}

		nIndex := make(map[mesh.Vec3]int)
		for _, f := range m.Faces {
			if len(f.Normals) != len(f.Verts) {
				continue
			}
			for _, n := range f.Normals {
				if _, ok := nIndex[n]; ok {
					continue
				}
				nIndex[n] = len(nIndex)
				fmt.Fprintf(bw, "vn %s %s %s\n", ff(n.X), ff(n.Y), ff(n.Z))
			}
		}

		for _, f := range m.Faces {
			st.update(bw, f)
			hasUV := len(f.UVs) == len(f.Verts)
			hasN := len(f.Normals) == len(f.Verts)
			bw.WriteString("f")
			for i, vi := range f.Verts {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(vBase + vi + 1))
				if hasUV || hasN {
					bw.WriteByte('/')
				}
				if hasUV {
					bw.WriteString(strconv.Itoa(vtBase + uvIndex[f.UVs[i]] + 1))
				}
				if hasN {
					bw.WriteByte('/')
					bw.WriteString(strconv.Itoa(vnBase + nIndex[f.Normals[i]] + 1))
				}
			}
			bw.WriteByte('\n')
		}
		for _, l := range m.Lines {
			hasUV := len(l.UVs) == len(l.Verts)
			bw.WriteString("l")
			for i, vi := range l.Verts {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(vBase + vi + 1))
				if hasUV {
					bw.WriteByte('/')
					bw.WriteString(strconv.Itoa(vtBase + uvIndex[l.UVs[i]] + 1))
				}
			}
			bw.WriteByte('\n')
		}
		for _, p := range m.Points {
			bw.WriteString("p")
			for _, vi := range p {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(vBase + vi + 1))
			}
			bw.WriteByte('\n')
		}

		vBase += len(m.Verts)
		vtBase += len(uvIndex)
		vnBase += len(nIndex)
	}
	return bw.Flush()
}

// faceState tracks the material, smoothing and group statements in effect.
type faceState struct {
	material, smooth, group string
}

func (st *faceState) update(bw *bufio.Writer, f mesh.Face) {
	if f.Group != st.group {
		st.group = f.Group
		writeStatement(bw, "g", f.Group)
	}
	if f.Material != st.material {
		st.material = f.Material
		writeStatement(bw, "usemtl", f.Material)
	}
	if f.Smooth != st.smooth {
		st.smooth = f.Smooth
		writeStatement(bw, "s", f.Smooth)
	}
}

func writeStatement(bw *bufio.Writer, keyword, arg string) {
	bw.WriteString(keyword)
	if arg != "" {
		bw.WriteByte(' ')
		bw.WriteString(arg)
	}
	bw.WriteByte('\n')
}

// WriteFile writes s to path through a temp file in the same directory.
func WriteFile(path string, s *scene.Scene) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("objfile: create temp for %s: %w", path, err)
	}
	if err := Write(tmp, s); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("objfile: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("objfile: close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("objfile: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("objfile: rename %s: %w", path, err)
	}
	return nil
}

func ff(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

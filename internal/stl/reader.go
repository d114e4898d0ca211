package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"mmo-meshtools/internal/mesh"
)

const (
	headerSize = 80
	facetSize  = 50 // normal, 3 vertices, attribute byte count
)

// Parse reads a binary or ASCII STL file into a triangle mesh named name.
// Every facet contributes its own three vertices.
func Parse(data []byte, name string) (*mesh.Mesh, error) {
	if isASCII(data) {
		return parseASCII(data, name)
	}
	return parseBinary(data, name)
}

// ReadFile parses the STL file at path.
func ReadFile(path, name string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: read %s: %w", path, err)
	}
	m, err := Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// isASCII reports whether data looks like a text STL. Binary exporters often
// start their header with "solid" too, so the size is checked first.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(data) >= headerSize+4 {
		n := binary.LittleEndian.Uint32(data[headerSize:])
		if uint64(len(data)) == headerSize+4+uint64(n)*facetSize {
			return false
		}
	}
	return true
}

func parseBinary(data []byte, name string) (*mesh.Mesh, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("stl: truncated header (%d bytes)", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[headerSize:]))
	body := data[headerSize+4:]
	if len(body) < count*facetSize {
		return nil, fmt.Errorf("stl: truncated data: %d facets declared, room for %d", count, len(body)/facetSize)
	}

	m := mesh.New(name)
	m.Verts = make([]mesh.Vec3, 0, count*3)
	m.Faces = make([]mesh.Face, 0, count)
	for i := 0; i < count; i++ {
		off := i * facetSize
		base := len(m.Verts)
		// skip the 12-byte normal
		for k := 0; k < 3; k++ {
			m.Verts = append(m.Verts, toVec3(body[off+12+k*12:]))
		}
		m.Faces = append(m.Faces, mesh.Face{Verts: []int{base, base + 1, base + 2}})
	}
	return m, nil
}

func toVec3(b []byte) mesh.Vec3 {
	return mesh.Vec3{
		X: toFloat32(b[0:4]),
		Y: toFloat32(b[4:8]),
		Z: toFloat32(b[8:12]),
	}
}

func toFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func parseASCII(data []byte, name string) (*mesh.Mesh, error) {
	m := mesh.New(name)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	var facet []int
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			facet = facet[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("stl: line %d: vertex needs 3 coordinates", line)
			}
			var c [3]float32
			for k := range c {
				f, err := strconv.ParseFloat(fields[k+1], 32)
				if err != nil {
					return nil, fmt.Errorf("stl: line %d: bad number %q", line, fields[k+1])
				}
				c[k] = float32(f)
			}
			facet = append(facet, len(m.Verts))
			m.Verts = append(m.Verts, mesh.Vec3{X: c[0], Y: c[1], Z: c[2]})
		case "endfacet":
			if len(facet) != 3 {
				return nil, fmt.Errorf("stl: line %d: facet has %d vertices", line, len(facet))
			}
			m.Faces = append(m.Faces, mesh.Face{Verts: append([]int(nil), facet...)})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: scan: %w", err)
	}
	return m, nil
}

package collision

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"mmo-meshtools/internal/mesh"
)

const declaration = `<?xml version="1.0" encoding="UTF-8" ?>`

// Options controls the document framing and number formatting.
type Options struct {
	Declaration bool   // emit the <?xml ... ?> line
	Root        bool   // wrap triangles in <collidable>...</collidable>
	Indent      string // one indentation level
	Precision   int    // digits after the point; -1 for shortest round-trip
}

// DefaultOptions returns the canonical collision document layout.
func DefaultOptions() Options {
	return Options{
		Declaration: true,
		Root:        true,
		Indent:      "    ",
		Precision:   -1,
	}
}

// LevelOptions returns the bare triangle-list layout produced by the level
// exporter: no declaration and no root element.
func LevelOptions() Options {
	o := DefaultOptions()
	o.Declaration = false
	o.Root = false
	return o
}

// Encoder writes triangles as collision XML.
type Encoder struct {
	w    *bufio.Writer
	opts Options
	buf  []byte
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts Options) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), opts: opts}
}

// Begin writes the declaration and the root opening tag.
func (e *Encoder) Begin() error {
	if e.opts.Declaration {
		e.w.WriteString(declaration)
		e.w.WriteByte('\n')
	}
	if e.opts.Root {
		e.w.WriteString("<collidable>\n")
	}
	return nil
}

// WriteTriangle writes one <triangle> record.
func (e *Encoder) WriteTriangle(t mesh.Triangle) error {
	in := e.opts.Indent
	e.w.WriteString(in)
	e.w.WriteString("<triangle>\n")
	for _, v := range t {
		e.w.WriteString(in)
		e.w.WriteString(in)
		e.w.WriteString("<vertex ")
		e.attr("x", v.X)
		e.w.WriteByte(' ')
		e.attr("y", v.Y)
		e.w.WriteByte(' ')
		e.attr("z", v.Z)
		_, err := e.w.WriteString("/>\n")
		if err != nil {
			return err
		}
	}
	e.w.WriteString(in)
	_, err := e.w.WriteString("</triangle>\n")
	return err
}

func (e *Encoder) attr(name string, f float32) {
	e.buf = e.buf[:0]
	e.buf = append(e.buf, name...)
	e.buf = append(e.buf, '=', '"')
	e.buf = strconv.AppendFloat(e.buf, float64(f), 'f', e.opts.Precision, 32)
	e.buf = append(e.buf, '"')
	e.w.Write(e.buf)
}

// End closes the root element and flushes buffered output.
func (e *Encoder) End() error {
	if e.opts.Root {
		e.w.WriteString("</collidable>\n")
	}
	return e.w.Flush()
}

// Encode writes a complete document for tris.
func Encode(w io.Writer, tris []mesh.Triangle, opts Options) error {
	enc := NewEncoder(w, opts)
	if err := enc.Begin(); err != nil {
		return err
	}
	for _, t := range tris {
		if err := enc.WriteTriangle(t); err != nil {
			return err
		}
	}
	return enc.End()
}

// WriteFile writes tris to path, replacing any existing file.
// With atomic set the document is written to a sibling temp file and renamed
// into place, so a failed write leaves the previous file untouched.
func WriteFile(path string, tris []mesh.Triangle, opts Options, atomic bool) error {
	if !atomic {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("collision: create %s: %w", path, err)
		}
		if err := Encode(f, tris, opts); err != nil {
			f.Close()
			return fmt.Errorf("collision: write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("collision: close %s: %w", path, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("collision: create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := Encode(tmp, tris, opts); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("collision: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("collision: close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("collision: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("collision: rename %s: %w", path, err)
	}
	return nil
}

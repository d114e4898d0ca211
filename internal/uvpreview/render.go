package uvpreview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"mmo-meshtools/internal/mesh"
)

// Style holds the preview colours.
type Style struct {
	Background color.NRGBA
	Edge       color.NRGBA
	Selected   color.NRGBA
	Active     color.NRGBA
}

// DefaultStyle is a dark backdrop with white edges, orange selection and a
// cyan active face.
var DefaultStyle = Style{
	Background: color.NRGBA{R: 40, G: 40, B: 40, A: 255},
	Edge:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Selected:   color.NRGBA{R: 255, G: 140, B: 0, A: 110},
	Active:     color.NRGBA{R: 0, G: 200, B: 255, A: 150},
}

// Options controls the output image.
type Options struct {
	Size        int
	Supersample int
	Texture     *image.NRGBA // drawn under the layout when set
	Style       Style
}

// Render draws the UV layout of m. The image spans UV space [0,1]² with V up.
// Faces without UVs are skipped.
func Render(m *mesh.Mesh, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	size := max(opts.Size, 1)
	c := newCanvas(size * ss)

	if opts.Texture != nil {
		bg := image.NewRGBA(c.img.Bounds())
		draw.ApproxBiLinear.Scale(bg, bg.Bounds(), opts.Texture, opts.Texture.Bounds(), draw.Src, nil)
		draw.Draw(c.img, c.img.Bounds(), bg, image.Point{}, draw.Src)
	} else {
		c.fill(opts.Style.Background)
	}

	if m.HasFaceUV {
		for i, f := range m.Faces {
			fill := opts.Style.Selected
			switch {
			case i == m.ActiveFace:
				fill = opts.Style.Active
			case !f.Selected:
				continue
			}
			pts := c.project(f.UVs)
			if len(pts) < 3 {
				continue
			}
			for k := 1; k+1 < len(pts); k++ {
				c.triangle(pts[0], pts[k], pts[k+1], fill)
			}
		}
		for _, f := range m.Faces {
			pts := c.project(f.UVs)
			for k := range pts {
				c.line(pts[k], pts[(k+1)%len(pts)], ss, opts.Style.Edge)
			}
		}
	}

	if ss > 1 {
		return Downsample(c.img, size)
	}
	return c.img
}

// Encode writes img as lossless WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("uvpreview: webp encode: %w", err)
	}
	return nil
}

// WriteFile renders m and saves it as WebP at path.
func WriteFile(path string, m *mesh.Mesh, opts Options) error {
	img := Render(m, opts)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("uvpreview: create %s: %w", path, err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("uvpreview: close %s: %w", path, err)
	}
	return nil
}

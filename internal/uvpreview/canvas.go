package uvpreview

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/exp/constraints"

	"mmo-meshtools/internal/mesh"
)

type point struct {
	x, y float64
}

// canvas is a square NRGBA target with alpha blending.
type canvas struct {
	img  *image.NRGBA
	size int
}

func newCanvas(size int) *canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, size, size)), size: size}
}

func (c *canvas) fill(col color.NRGBA) {
	p := c.img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i], p[i+1], p[i+2], p[i+3] = col.R, col.G, col.B, col.A
	}
}

// project maps UVs to pixel space with V pointing up.
func (c *canvas) project(uvs []mesh.UV) []point {
	s := float64(c.size)
	pts := make([]point, len(uvs))
	for i, uv := range uvs {
		pts[i] = point{x: float64(uv.U) * s, y: (1 - float64(uv.V)) * s}
	}
	return pts
}

// blend composites col over the pixel at (x, y).
func (c *canvas) blend(x, y int, col color.NRGBA) {
	if x < 0 || y < 0 || x >= c.size || y >= c.size {
		return
	}
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+4 : i+4]
	sa := float64(col.A) / 255
	da := float64(p[3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return
	}
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / oa
		return uint8(clamp(v, 0, 255) + 0.5)
	}
	p[0] = mix(col.R, p[0])
	p[1] = mix(col.G, p[1])
	p[2] = mix(col.B, p[2])
	p[3] = uint8(clamp(oa*255, 0, 255) + 0.5)
}

// triangle fills a triangle by testing pixel centres against barycentric weights.
func (c *canvas) triangle(a, b, d point, col color.NRGBA) {
	last := float64(c.size - 1)
	minX := int(clamp(math.Floor(min(a.x, b.x, d.x)), 0, last))
	maxX := int(clamp(math.Ceil(max(a.x, b.x, d.x)), 0, last))
	minY := int(clamp(math.Floor(min(a.y, b.y, d.y)), 0, last))
	maxY := int(clamp(math.Ceil(max(a.y, b.y, d.y)), 0, last))

	det := (b.y-d.y)*(a.x-d.x) + (d.x-b.x)*(a.y-d.y)
	if math.Abs(det) < 1e-12 {
		return
	}
	inv := 1 / det

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := ((b.y-d.y)*(px-d.x) + (d.x-b.x)*(py-d.y)) * inv
			w1 := ((d.y-a.y)*(px-d.x) + (a.x-d.x)*(py-d.y)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c.blend(x, y, col)
		}
	}
}

// line stamps a width×width square along the segment a-b. The segment is
// clipped to the canvas first, so far out-of-range UVs cost no more than an
// edge across the whole image.
func (c *canvas) line(a, b point, width int, col color.NRGBA) {
	margin := float64(width)
	a, b, ok := clipSegment(a, b, -margin, float64(c.size)+margin)
	if !ok {
		return
	}
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	half := width / 2
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Floor(a.x + dx*t))
		y := int(math.Floor(a.y + dy*t))
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		for oy := -half; oy < width-half; oy++ {
			for ox := -half; ox < width-half; ox++ {
				c.set(x+ox, y+oy, col)
			}
		}
	}
}

// clipSegment clips a-b to the square [lo, hi]² (Liang-Barsky).
// ok is false when no part of the segment lies inside.
func clipSegment(a, b point, lo, hi float64) (point, point, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.x - lo},
		{dx, hi - a.x},
		{-dy, a.y - lo},
		{dy, hi - a.y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		return a, b, false
	}
	return point{a.x + t0*dx, a.y + t0*dy}, point{a.x + t1*dx, a.y + t1*dy}, true
}

func (c *canvas) set(x, y int, col color.NRGBA) {
	if x < 0 || y < 0 || x >= c.size || y >= c.size {
		return
	}
	i := c.img.PixOffset(x, y)
	c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2], c.img.Pix[i+3] = col.R, col.G, col.B, col.A
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

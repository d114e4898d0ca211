package uvpreview

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales img to size×size with premultiplied-alpha CatmullRom
// filtering, which keeps translucent face fills from darkening at the edges.
func Downsample(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}

	// image.RGBA is premultiplied; draw converts on the way in
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	// Unpremultiply
	out := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := float64(dst.Pix[i+3])
		if a > 1 {
			inv := 255 / a
			out.Pix[i] = uint8(clamp(float64(dst.Pix[i])*inv, 0, 255) + 0.5)
			out.Pix[i+1] = uint8(clamp(float64(dst.Pix[i+1])*inv, 0, 255) + 0.5)
			out.Pix[i+2] = uint8(clamp(float64(dst.Pix[i+2])*inv, 0, 255) + 0.5)
		}
		out.Pix[i+3] = dst.Pix[i+3]
	}
	return out
}

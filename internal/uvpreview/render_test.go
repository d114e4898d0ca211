package uvpreview

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"mmo-meshtools/internal/mesh"
)

func quadMesh() *mesh.Mesh {
	m := mesh.New("plane")
	m.Verts = []mesh.Vec3{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	m.Faces = []mesh.Face{{
		Verts:    []int{0, 1, 2, 3},
		UVs:      []mesh.UV{{U: 0.25, V: 0.25}, {U: 0.75, V: 0.25}, {U: 0.75, V: 0.75}, {U: 0.25, V: 0.75}},
		Selected: true,
	}}
	m.HasFaceUV = true
	return m
}

func TestRenderSize(t *testing.T) {
	img := Render(quadMesh(), Options{Size: 64, Supersample: 2, Style: DefaultStyle})
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestRenderFillsSelectedFace(t *testing.T) {
	img := Render(quadMesh(), Options{Size: 64, Supersample: 1, Style: DefaultStyle})

	inside := img.NRGBAAt(32, 32)
	outside := img.NRGBAAt(4, 4)
	if outside != DefaultStyle.Background {
		t.Fatalf("outside = %v", outside)
	}
	if inside == DefaultStyle.Background {
		t.Fatal("selected face not tinted")
	}
	if inside.R <= inside.B {
		t.Fatalf("inside = %v, want orange tint", inside)
	}
}

func TestRenderActiveFaceColour(t *testing.T) {
	m := quadMesh()
	m.ActiveFace = 0
	img := Render(m, Options{Size: 64, Supersample: 1, Style: DefaultStyle})
	inside := img.NRGBAAt(32, 32)
	if inside.B <= inside.R {
		t.Fatalf("inside = %v, want cyan tint", inside)
	}
}

func TestRenderVFlipped(t *testing.T) {
	m := mesh.New("tri")
	m.Verts = []mesh.Vec3{{}, {X: 1}, {Y: 1}}
	// Triangle covering the top half of UV space (high V).
	m.Faces = []mesh.Face{{
		Verts:    []int{0, 1, 2},
		UVs:      []mesh.UV{{U: 0, V: 1}, {U: 1, V: 1}, {U: 0.5, V: 0.6}},
		Selected: true,
	}}
	m.HasFaceUV = true

	img := Render(m, Options{Size: 100, Supersample: 1, Style: DefaultStyle})
	if img.NRGBAAt(50, 10) == DefaultStyle.Background {
		t.Fatal("high V face not drawn near top of image")
	}
	if img.NRGBAAt(50, 90) != DefaultStyle.Background {
		t.Fatal("bottom of image touched")
	}
}

func TestRenderTextureBackground(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(tex.Pix); i += 4 {
		tex.Pix[i], tex.Pix[i+1], tex.Pix[i+2], tex.Pix[i+3] = 0, 200, 0, 255
	}
	m := mesh.New("empty")
	img := Render(m, Options{Size: 16, Supersample: 1, Texture: tex, Style: DefaultStyle})
	if got := img.NRGBAAt(8, 8); got != (color.NRGBA{G: 200, A: 255}) {
		t.Fatalf("background = %v", got)
	}
}

func TestDownsampleKeepsOpaqueColour(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 10, 20, 30, 255
	}
	out := Downsample(src, 4)
	if got := out.NRGBAAt(2, 2); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if Downsample(src, 8) != src {
		t.Fatal("no-op downsample allocated")
	}
}

func TestWriteFileWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uv.webp")
	if err := WriteFile(path, quadMesh(), Options{Size: 32, Supersample: 2, Style: DefaultStyle}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Fatalf("header = %q", data[:12])
	}
}

func TestRenderFarOutsideUVs(t *testing.T) {
	m := mesh.New("stretched")
	m.Verts = []mesh.Vec3{{}, {X: 1}, {Y: 1}}
	m.Faces = []mesh.Face{{
		Verts:    []int{0, 1, 2},
		UVs:      []mesh.UV{{U: 0.5, V: 0.5}, {U: 1e9, V: 0.5}, {U: 0.5, V: -1e9}},
		Selected: true,
	}}
	m.HasFaceUV = true

	img := Render(m, Options{Size: 64, Supersample: 1, Style: DefaultStyle})
	// the first edge runs along row 32 from the centre to the right border
	if got := img.NRGBAAt(60, 32); got != DefaultStyle.Edge {
		t.Fatalf("edge pixel = %v; want %v", got, DefaultStyle.Edge)
	}
}

func TestClipSegment(t *testing.T) {
	a, b, ok := clipSegment(point{-10, 5}, point{30, 5}, 0, 10)
	if !ok || a != (point{0, 5}) || b != (point{10, 5}) {
		t.Fatalf("clip = %v %v %v", a, b, ok)
	}
	if _, _, ok := clipSegment(point{-10, -5}, point{20, -5}, 0, 10); ok {
		t.Fatal("segment outside the square was kept")
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1.5, 0, 1) != 0 || clamp(2, 0, 3) != 2 {
		t.Fatal("clamp")
	}
}

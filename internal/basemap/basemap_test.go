package basemap

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"geoheat/pkg/geometry"
)

func writeTestPNG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWithWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "tile.png", color.RGBA{R: 200, A: 255})

	// 4x4 image, 0.5 units per pixel, top-left pixel centered at (100.25, 39.75)
	world := "0.5\n0\n0\n-0.5\n100.25\n39.75\n"
	if err := os.WriteFile(filepath.Join(dir, "tile.pgw"), []byte(world), 0o644); err != nil {
		t.Fatal(err)
	}

	bm, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bm.Registered() {
		t.Fatal("world file sidecar not picked up")
	}
	want := geometry.NewBounds(100, 38, 102, 40)
	if math.Abs(bm.Bounds.MinX-want.MinX) > 1e-9 || math.Abs(bm.Bounds.MaxY-want.MaxY) > 1e-9 ||
		math.Abs(bm.Bounds.MaxX-want.MaxX) > 1e-9 || math.Abs(bm.Bounds.MinY-want.MinY) > 1e-9 {
		t.Errorf("bounds = %+v, want %+v", bm.Bounds, want)
	}
}

func TestLoadWithoutWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "plain.png", color.RGBA{B: 255, A: 255})

	bm, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if bm.Registered() {
		t.Error("unregistered basemap reports geographic bounds")
	}
	if bm.Width() != 4 || bm.Height() != 4 {
		t.Errorf("dimensions = %dx%d, want 4x4", bm.Width(), bm.Height())
	}
}

func TestReadWorldFileRejectsRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rot.pgw")
	if err := os.WriteFile(path, []byte("0.5\n0.1\n0\n-0.5\n0\n0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readWorldFile(path, 4, 4); err == nil {
		t.Fatal("rotated world file accepted")
	}
}

func TestDrawFillsCoveredRegion(t *testing.T) {
	bm := New()
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = 50
		src.Pix[i+1] = 100
		src.Pix[i+2] = 150
		src.Pix[i+3] = 255
	}
	bm.Image = src
	bm.Bounds = geometry.NewBounds(0, 0, 5, 5)

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	bm.Draw(dst, geometry.NewBounds(0, 0, 10, 10))

	// basemap covers the lower-left quadrant of the view
	if got := dst.RGBAAt(2, 7); got.B != 150 {
		t.Errorf("covered pixel = %v, want basemap blue 150", got)
	}
	if got := dst.RGBAAt(8, 2); got.A != 0 {
		t.Errorf("uncovered pixel = %v, want untouched", got)
	}
}

func TestDrawHonorsOpacityAndVisibility(t *testing.T) {
	bm := New()
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
		src.Pix[i+3] = 255
	}
	bm.Image = src
	bm.Bounds = geometry.NewBounds(0, 0, 10, 10)

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	bm.Opacity = 0.5
	bm.Draw(dst, geometry.NewBounds(0, 0, 10, 10))
	if got := dst.RGBAAt(1, 1).R; got < 125 || got > 130 {
		t.Errorf("half-opacity R = %d, want near 128", got)
	}

	dst2 := image.NewRGBA(image.Rect(0, 0, 4, 4))
	bm.Visible = false
	bm.Draw(dst2, geometry.NewBounds(0, 0, 10, 10))
	for _, p := range dst2.Pix {
		if p != 0 {
			t.Fatal("hidden basemap drew pixels")
		}
	}
}

func TestIsSupportedFormat(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.tiff"} {
		if !IsSupportedFormat(p) {
			t.Errorf("%s not recognized", p)
		}
	}
	if IsSupportedFormat("d.gif") {
		t.Error("gif recognized as supported")
	}
}

package screenshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedCapture(dir string) *Capture {
	c := New(dir, "shot")
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC) }
	return c
}

func TestFilename(t *testing.T) {
	c := fixedCapture("out")
	want := filepath.Join("out", "shot_2024-03-01_12-30-45.000.png")
	if got := c.Filename(); got != want {
		t.Errorf("Filename() = %s, want %s", got, want)
	}

	c.SetOutputDir("")
	if got := c.Filename(); strings.Contains(got, string(filepath.Separator)) {
		t.Errorf("Filename() without dir = %s", got)
	}
}

func TestFromImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	c := fixedCapture(dir)

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})

	path, err := c.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
	if r, _, _, _ := decoded.At(1, 1).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (1,1) red = %d", r>>8)
	}
}

func TestFromPixelsFlips(t *testing.T) {
	c := fixedCapture(t.TempDir())

	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, b, _ := img.At(0, 0).RGBA(); b>>8 != 255 {
		t.Error("top row should be blue after flip")
	}
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	c := fixedCapture(t.TempDir())
	if _, err := c.FromPixels(make([]byte, 7), 2, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}

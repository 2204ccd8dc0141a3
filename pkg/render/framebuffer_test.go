package render

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"
)

var red = RGB(255, 0, 0)

func countColor(fb *Framebuffer, c [4]uint8) int {
	n := 0
	for _, p := range fb.Pixels {
		if [4]uint8{p.R, p.G, p.B, p.A} == c {
			n++
		}
	}
	return n
}

var redKey = [4]uint8{255, 0, 0, 255}

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	if len(fb.Pixels) != 12 {
		t.Fatalf("pixels = %d, want 12", len(fb.Pixels))
	}

	fb.SetPixel(3, 2, red)
	fb.SetPixel(-1, 0, red)
	fb.SetPixel(4, 0, red)
	fb.SetPixel(0, 3, red)

	if fb.Pixel(3, 2) != red {
		t.Error("SetPixel(3, 2) not stored")
	}
	if n := countColor(fb, redKey); n != 1 {
		t.Errorf("out-of-range writes landed: %d red pixels", n)
	}
	if fb.Pixel(10, 10) != (fb.Pixel(-1, -1)) {
		t.Error("out-of-range reads should return the zero color")
	}

	fb.Clear(red)
	if n := countColor(fb, redKey); n != 12 {
		t.Errorf("Clear colored %d pixels, want 12", n)
	}

	if empty := NewFramebuffer(-3, 2); empty.Width != 0 || len(empty.Pixels) != 0 {
		t.Errorf("negative size framebuffer = %dx%d", empty.Width, empty.Height)
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 0, 9, 0, 10},
		{"vertical", 2, 9, 2, 0, 10},
		{"diagonal", 0, 0, 9, 9, 10},
		{"single point", 5, 5, 5, 5, 1},
		{"clipped", -5, 3, 4, 3, 5},
		{"fully outside", -10, -10, -1, -5, 0},
		{"far endpoint", 5, 5, 2_000_000_000, 5, 5},
		{"both far", -2_000_000_000, 4, 2_000_000_000, 4, 10},
		{"far diagonal", -1_000_000_000, -1_000_000_000, 1_000_000_000, 1_000_000_000, 10},
		{"misses corner", -5, 4, 4, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(10, 10)
			fb.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, red)
			if got := countColor(fb, redKey); got != tt.want {
				t.Errorf("drew %d pixels, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawRectOutline(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawRectOutline(image.Rect(2, 2, 6, 5), red)

	// 4x3 rectangle: perimeter of 10 pixels.
	if got := countColor(fb, redKey); got != 10 {
		t.Errorf("outline pixels = %d, want 10", got)
	}
	for _, p := range []image.Point{{2, 2}, {5, 2}, {2, 4}, {5, 4}} {
		if fb.Pixel(p.X, p.Y) != red {
			t.Errorf("corner %v not drawn", p)
		}
	}
	if fb.Pixel(3, 3) == red {
		t.Error("interior drawn")
	}

	fb.Clear(RGB(0, 0, 0))
	fb.DrawRectOutline(image.Rect(4, 4, 4, 8), red)
	if got := countColor(fb, redKey); got != 0 {
		t.Errorf("empty rect drew %d pixels", got)
	}
}

func TestFillRectAndMarker(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.FillRect(image.Rect(8, 8, 20, 20), red)
	if got := countColor(fb, redKey); got != 4 {
		t.Errorf("clipped fill = %d pixels, want 4", got)
	}

	fb = NewFramebuffer(10, 10)
	fb.DrawMarker(5, 5, 2, red)
	if got := countColor(fb, redKey); got != 9 {
		t.Errorf("marker = %d pixels, want 9", got)
	}
}

func TestPNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(2, 1, red)

	img := fb.ToImage()
	if img.Bounds() != image.Rect(0, 0, 3, 2) || img.RGBAAt(2, 1) != red {
		t.Errorf("ToImage = %v, pixel %v", img.Bounds(), img.RGBAAt(2, 1))
	}

	var buf bytes.Buffer
	if err := fb.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r, _, _, _ := decoded.At(2, 1).RGBA(); r != 0xffff {
		t.Errorf("decoded red = %x", r)
	}

	path := filepath.Join(t.TempDir(), "fb.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "fb.png")); err == nil {
		t.Error("expected error for missing directory")
	}
}

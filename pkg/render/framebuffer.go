// Package render draws projected points and their bounding boxes into a
// pixel buffer that can be written as PNG or shown in a terminal.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
)

// Framebuffer is a row-major RGBA pixel grid with (0, 0) at the top left,
// matching the pixel coordinates produced by the projector.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewFramebuffer creates a transparent framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel colors (x, y). Out-of-range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// Pixel returns the color at (x, y), or transparent black outside the
// buffer.
func (fb *Framebuffer) Pixel(x, y int) color.RGBA {
	if !fb.inside(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a 1-pixel line with Bresenham's algorithm. Endpoints
// may lie outside the buffer; the segment is clipped first so only the
// visible part is walked.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	x0, y0, x1, y1, ok := fb.clipLine(x0, y0, x1, y1)
	if !ok {
		return
	}

	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clipLine trims a segment to the buffer with Liang-Barsky. It reports
// false when nothing of the segment is inside.
func (fb *Framebuffer) clipLine(x0, y0, x1, y1 int) (int, int, int, int, bool) {
	if fb.inside(x0, y0) && fb.inside(x1, y1) {
		return x0, y0, x1, y1, true
	}
	if fb.Width == 0 || fb.Height == 0 {
		return 0, 0, 0, 0, false
	}

	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	maxX, maxY := float64(fb.Width-1), float64(fb.Height-1)

	t0, t1 := 0.0, 1.0
	for _, pq := range [4][2]float64{
		{-dx, fx},
		{dx, maxX - fx},
		{-dy, fy},
		{dy, maxY - fy},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}

	clamp := func(v, hi float64) int {
		return int(math.Round(math.Min(math.Max(v, 0), hi)))
	}
	return clamp(fx+t0*dx, maxX), clamp(fy+t0*dy, maxY),
		clamp(fx+t1*dx, maxX), clamp(fy+t1*dy, maxY), true
}

// FillRect fills the half-open rectangle r.
func (fb *Framebuffer) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			fb.Pixels[y*fb.Width+x] = c
		}
	}
}

// DrawRectOutline draws the 1-pixel border of the half-open rectangle r.
func (fb *Framebuffer) DrawRectOutline(r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	fb.DrawLine(x0, y0, x1, y0, c)
	fb.DrawLine(x0, y1, x1, y1, c)
	fb.DrawLine(x0, y0, x0, y1, c)
	fb.DrawLine(x1, y0, x1, y1, c)
}

// DrawMarker draws a plus sign of the given arm length centered on (x, y).
func (fb *Framebuffer) DrawMarker(x, y, arm int, c color.RGBA) {
	fb.DrawLine(x-arm, y, x+arm, y, c)
	fb.DrawLine(x, y-arm, x, y+arm, c)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x, c := range row {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// WritePNG encodes the framebuffer as PNG.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	if err := png.Encode(w, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fb.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

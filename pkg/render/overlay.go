package render

import (
	"image"
	"image/color"
	"math"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/bounds"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

// Mark is a projected point to draw.
type Mark struct {
	Pixel projection.Pixel
	// Visible is false for points outside the camera frustum; they are
	// drawn dimmed.
	Visible bool
}

// Overlay is a projection result in render pixel space.
type Overlay struct {
	ResolutionX, ResolutionY int

	Marks []Mark
	Edges [][2]int // Index pairs into Marks

	Box    bounds.Box
	HasBox bool
}

// Palette picks the colors DrawOverlay uses.
type Palette struct {
	Background color.RGBA
	Frame      color.RGBA
	Edge       color.RGBA
	Point      color.RGBA
	Hidden     color.RGBA
	Box        color.RGBA
}

// DefaultPalette draws light geometry and a red box on dark grey.
var DefaultPalette = Palette{
	Background: RGB(24, 24, 28),
	Frame:      RGB(70, 70, 80),
	Edge:       RGB(150, 150, 160),
	Point:      RGB(255, 255, 255),
	Hidden:     RGB(90, 90, 100),
	Box:        RGB(230, 40, 40),
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// scaler maps render pixels onto a framebuffer of a different size so the
// render frame's first and last pixels land on the buffer's edges.
type scaler struct {
	sx, sy float64
}

func newScaler(fb *Framebuffer, resX, resY int) scaler {
	ratio := func(dst, src int) float64 {
		if src <= 1 {
			return 0
		}
		return float64(dst-1) / float64(src-1)
	}
	return scaler{sx: ratio(fb.Width, resX), sy: ratio(fb.Height, resY)}
}

func (s scaler) point(p projection.Pixel) (x, y int, ok bool) {
	fx, fy := p.X*s.sx, p.Y*s.sy
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > math.MaxInt32 || math.Abs(fy) > math.MaxInt32 {
		return 0, 0, false
	}
	return int(math.Round(fx)), int(math.Round(fy)), true
}

// DrawOverlay clears fb and paints the overlay scaled to fb's size: the
// render frame, mesh edges, points, and the bounding box on top.
func DrawOverlay(fb *Framebuffer, o Overlay, pal Palette) {
	fb.Clear(pal.Background)
	fb.DrawRectOutline(image.Rect(0, 0, fb.Width, fb.Height), pal.Frame)

	s := newScaler(fb, o.ResolutionX, o.ResolutionY)

	for _, e := range o.Edges {
		if e[0] < 0 || e[0] >= len(o.Marks) || e[1] < 0 || e[1] >= len(o.Marks) {
			continue
		}
		x0, y0, ok0 := s.point(o.Marks[e[0]].Pixel)
		x1, y1, ok1 := s.point(o.Marks[e[1]].Pixel)
		if ok0 && ok1 {
			fb.DrawLine(x0, y0, x1, y1, pal.Edge)
		}
	}

	for _, m := range o.Marks {
		x, y, ok := s.point(m.Pixel)
		if !ok {
			continue
		}
		c := pal.Point
		if !m.Visible {
			c = pal.Hidden
		}
		fb.DrawMarker(x, y, 1, c)
	}

	if o.HasBox && !o.Box.Empty() {
		x0, y0, _ := s.point(projection.Pixel{X: o.Box.Left, Y: o.Box.Top})
		x1, y1, _ := s.point(projection.Pixel{X: o.Box.Right, Y: o.Box.Bottom})
		fb.DrawRectOutline(image.Rect(x0, y0, x1+1, y1+1), pal.Box)
	}
}

package render

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// ImageCanvas rasterizes device-space paths into an RGBA image.
type ImageCanvas struct {
	dc *gg.Context
}

// NewImageCanvas returns a canvas of the given pixel size cleared to bg.
// A nil bg leaves the image transparent.
func NewImageCanvas(width, height int, bg color.Color) *ImageCanvas {
	dc := gg.NewContext(width, height)
	if bg != nil {
		dc.ClearWithColor(gg.FromColor(bg))
	}
	dc.SetLineWidth(1)
	return &ImageCanvas{dc: dc}
}

// SetPaint sets the colour used by the next Fill or Stroke.
func (c *ImageCanvas) SetPaint(col color.Color) { c.dc.SetColor(col) }

// SetLineWidth sets the stroke width in device units.
func (c *ImageCanvas) SetLineWidth(w float64) { c.dc.SetLineWidth(w) }

func (c *ImageCanvas) Fill(p *gg.Path) error {
	c.load(p)
	return c.dc.Fill()
}

func (c *ImageCanvas) Stroke(p *gg.Path) error {
	c.load(p)
	return c.dc.Stroke()
}

// load replays p into the context. The context matrix stays identity since
// p is already in device space.
func (c *ImageCanvas) load(p *gg.Path) {
	c.dc.ClearPath()
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			c.dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			c.dc.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			c.dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			c.dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			c.dc.ClosePath()
		}
	}
}

func (c *ImageCanvas) Image() image.Image          { return c.dc.Image() }
func (c *ImageCanvas) SavePNG(path string) error   { return c.dc.SavePNG(path) }
func (c *ImageCanvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }
func (c *ImageCanvas) Close() error                { return c.dc.Close() }
func (c *ImageCanvas) Size() (width, height int)   { return c.dc.Width(), c.dc.Height() }

package tui

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"

	"geoportray/internal/render"
)

type brailleBuf struct {
	w, h int        // in cells
	m    [][]uint8  // per-cell 8-bit mask
	fg   [][]string // per-cell foreground, last paint wins
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	fg := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		fg[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, fg: fg}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, fg string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy < 0 || cy >= b.h || cx < 0 || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	b.fg[cy][cx] = fg
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, fg string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, fg)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines renders the buffer, colouring runs of cells that share a
// foreground.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		runFg := ""
		var run []rune
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runFg == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runFg)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			r, fg := ' ', ""
			if mask != 0 {
				r, fg = rune(0x2800+int(mask)), b.fg[y][x]
			}
			if fg != runFg {
				flush()
				runFg = fg
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// brailleCanvas draws device-space paths into a braille buffer. Device
// units are micro-pixels.
type brailleCanvas struct {
	buf *brailleBuf
	fg  string
}

var _ render.Canvas = (*brailleCanvas)(nil)

func newBrailleCanvas(w, h int) *brailleCanvas {
	return &brailleCanvas{buf: newBrailleBuf(w, h)}
}

func (c *brailleCanvas) SetPaint(col color.Color) { c.fg = hexColor(col) }

func (c *brailleCanvas) Stroke(p *gg.Path) error {
	for _, pl := range render.Polylines(p) {
		c.polyline(pl)
	}
	return nil
}

// Fill paints the even-odd interior on the microgrid, then the outline so
// thin shapes stay visible.
func (c *brailleCanvas) Fill(p *gg.Path) error {
	rings := render.Polylines(p)
	hMic := c.buf.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		y := float64(yMic) + 0.5
		var xs []float64
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a.Y == b.Y {
					continue
				}
				if (y >= a.Y && y < b.Y) || (y >= b.Y && y < a.Y) {
					t := (y - a.Y) / (b.Y - a.Y)
					xs = append(xs, a.X+t*(b.X-a.X))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := max(0, int(math.Round(xs[i])))
			x1 := min(c.buf.w*2-1, int(math.Round(xs[i+1])))
			for xMic := x0; xMic <= x1; xMic++ {
				c.buf.setPixel(xMic, yMic, c.fg)
			}
		}
	}
	return c.Stroke(p)
}

func (c *brailleCanvas) polyline(pl []gg.Point) {
	if len(pl) == 1 {
		c.buf.setPixel(round(pl[0].X), round(pl[0].Y), c.fg)
		return
	}
	for i := 1; i < len(pl); i++ {
		a, b := pl[i-1], pl[i]
		c.buf.drawLineMicro(round(a.X), round(a.Y), round(b.X), round(b.Y), c.fg)
	}
}

func (c *brailleCanvas) lines() []string { return c.buf.toLines() }

func round(v float64) int { return int(math.Round(v)) }

// hexColor formats col for lipgloss. Nil gives the terminal default.
func hexColor(col color.Color) string {
	if col == nil {
		return ""
	}
	r, g, b, _ := col.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package tui

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"

	"geoportray/internal/inspect"
	"geoportray/internal/render"
)

const hoverColor = "#FFA500"

// viewTransform maps data coordinates onto the 2x4 micro-pixel grid of a
// w x h cell map, applying zoom around the bbox centre and pan. North is up.
func (m Model) viewTransform(w, h int) (gg.Matrix, bool) {
	b := m.data.BBox
	if len(m.data.Features) == 0 || !b.Valid() || w <= 1 || h <= 1 {
		return gg.Identity(), false
	}
	spanX, spanY := b.Width(), b.Height()
	// a single point or an axis-aligned line still gets a usable scale
	if spanX == 0 {
		spanX = spanY
	}
	if spanY == 0 {
		spanY = spanX
	}
	if spanX == 0 {
		spanX, spanY = 1, 1
	}
	wMic, hMic := float64(w*2-1), float64(h*4-1)
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	return gg.Translate(float64(m.offsetX*2)+wMic/2, float64(m.offsetY*4)+hMic/2).
		Multiply(gg.Scale(wMic*m.zoom/spanX, -hMic*m.zoom/spanY)).
		Multiply(gg.Translate(-cx, -cy)), true
}

// cellToLonLat converts a map cell coordinate back to lon/lat.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	mat, ok := m.viewTransform(w, h)
	if !ok {
		return 0, 0, false
	}
	p := mat.Invert().TransformPoint(gg.Pt(float64(cx*2)+0.5, float64(cy*4)+1.5))
	return p.X, p.Y, true
}

// hitAt returns the top-most entity drawn under a map cell.
func (m Model) hitAt(cx, cy int) *render.Entity {
	if m.display == nil {
		return nil
	}
	hits := m.display.Hit(render.Rect(float64(cx*2), float64(cy*4), 2, 4), render.DefaultSlop)
	if len(hits) == 0 {
		return nil
	}
	return hits[0]
}

// renderMap draws the display into a braille canvas of w x h cells.
func (m Model) renderMap(w, h int) (string, render.DrawStats) {
	c := newBrailleCanvas(w, h)
	var st render.DrawStats
	if mat, ok := m.viewTransform(w, h); ok {
		st = m.display.Draw(c, mat)
		if m.hovering && m.hoverHit != nil && m.hoverHit.Shape() != nil {
			c.fg = hoverColor
			_ = c.Stroke(m.hoverHit.Shape())
		}
	}
	return strings.Join(c.lines(), "\n"), st
}

// inspectText formats the inspector tabs of e for the popup.
func inspectText(e *render.Entity) string {
	var sb strings.Builder
	for i, tab := range inspect.Build(e.Wrapper, e.Feature) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(titleStyle.Render(tab.Title))
		for _, row := range tab.Rows {
			fmt.Fprintf(&sb, "\n%s: %s", row.Label, row.Value())
		}
	}
	return sb.String()
}

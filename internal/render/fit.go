package render

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"

	"geoportray/internal/geom"
)

// Layer names used by NewFamilyDisplay, bottom to top.
const (
	LayerPolygons = "polygons"
	LayerLines    = "lines"
	LayerPoints   = "points"
	LayerOther    = "other"
)

// LayerSettings configures one layer of a family display.
type LayerSettings struct {
	Style   Style
	Movable bool
}

// NewFamilyDisplay sorts features into one layer per geometry family.
// Geometries with no family, e.g. collections, go to LayerOther and are
// reported when drawn.
func NewFamilyDisplay(features []geom.Feature, settingsFor func(layer string) LayerSettings, log logrus.FieldLogger) *Display {
	d := &Display{}
	byName := make(map[string]*Layer)
	for _, name := range []string{LayerPolygons, LayerLines, LayerPoints, LayerOther} {
		ls := settingsFor(name)
		l := NewLayer(name, ls.Style)
		l.Movable = ls.Movable
		if log != nil {
			l.Log = log
		}
		byName[name] = l
		d.Layers = append(d.Layers, l)
	}
	for _, f := range features {
		switch geom.Family(f.Geometry) {
		case geom.KindPolygon:
			byName[LayerPolygons].Add(f)
		case geom.KindLineString:
			byName[LayerLines].Add(f)
		case geom.KindPoint:
			byName[LayerPoints].Add(f)
		default:
			byName[LayerOther].Add(f)
		}
	}
	return d
}

// Fit returns the transform that places b centred in a width x height device
// area with margin on every side, keeping the aspect ratio and putting north
// up. A degenerate box is treated as one unit wide.
func Fit(b geom.BBox, width, height, margin float64) gg.Matrix {
	if !b.Valid() {
		return gg.Identity()
	}
	spanX, spanY := math.Max(b.Width(), 1e-12), math.Max(b.Height(), 1e-12)
	if b.Width() == 0 && b.Height() == 0 {
		spanX, spanY = 1, 1
	}
	availW := math.Max(width-2*margin, 1)
	availH := math.Max(height-2*margin, 1)
	s := math.Min(availW/spanX, availH/spanY)
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	return gg.Translate(width/2, height/2).
		Multiply(gg.Scale(s, -s)).
		Multiply(gg.Translate(-cx, -cy))
}

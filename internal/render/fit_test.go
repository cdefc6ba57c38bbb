package render

import (
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportray/internal/geom"
)

func TestFit(t *testing.T) {
	b := geom.BBox{MinX: 0, MinY: 0, MaxX: 20, MaxY: 10}
	m := Fit(b, 100, 100, 10)

	// 80 px across for 20 units, centred vertically, north up
	nw := m.TransformPoint(gg.Pt(0, 10))
	se := m.TransformPoint(gg.Pt(20, 0))
	assert.InDelta(t, 10, nw.X, 1e-9)
	assert.InDelta(t, 30, nw.Y, 1e-9)
	assert.InDelta(t, 90, se.X, 1e-9)
	assert.InDelta(t, 70, se.Y, 1e-9)

	c := Fit(geom.BBox{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}, 100, 60, 10)
	p := c.TransformPoint(gg.Pt(5, 5))
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 30, p.Y, 1e-9)

	assert.Equal(t, gg.Identity(), Fit(geom.EmptyBBox(), 100, 100, 0))
}

func TestPolylines(t *testing.T) {
	p := gg.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(4, 0)
	p.LineTo(4, 4)
	p.Close()
	p.MoveTo(10, 10)
	p.LineTo(12, 10)

	got := Polylines(p)
	require.Len(t, got, 2)
	assert.Equal(t, []gg.Point{gg.Pt(0, 0), gg.Pt(4, 0), gg.Pt(4, 4), gg.Pt(0, 0)}, got[0])
	assert.Equal(t, []gg.Point{gg.Pt(10, 10), gg.Pt(12, 10)}, got[1])

	assert.Empty(t, Polylines(gg.NewPath()))
}

func TestNewFamilyDisplay(t *testing.T) {
	features := []geom.Feature{
		{Geometry: geom.Point{Coord: geom.Coord{X: 1, Y: 1}}},
		{Geometry: geom.MultiLineString{{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
		{Geometry: geom.Polygon{Exterior: square(0, 0, 1)}},
		{Geometry: geom.Collection{geom.Point{Coord: geom.Coord{X: 3, Y: 3}}}},
		{Geometry: geom.MultiPoint{{Coord: geom.Coord{X: 2, Y: 2}}}},
	}
	red := color.RGBA{R: 255, A: 255}
	d := NewFamilyDisplay(features, func(layer string) LayerSettings {
		if layer == LayerLines {
			return LayerSettings{Style: Style{Paint: red}, Movable: true}
		}
		return LayerSettings{Style: DefaultStyle()}
	}, nil)

	var names []string
	for _, l := range d.Layers {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{LayerPolygons, LayerLines, LayerPoints, LayerOther}, names)
	assert.Equal(t, 1, d.Layer(LayerPolygons).Len())
	assert.Equal(t, 1, d.Layer(LayerLines).Len())
	assert.Equal(t, 2, d.Layer(LayerPoints).Len())
	assert.Equal(t, 1, d.Layer(LayerOther).Len())
	assert.Equal(t, red, d.Layer(LayerLines).Style.Paint)
	assert.True(t, d.Layer(LayerLines).Entities()[0].Movable)
	assert.False(t, d.Layer(LayerPolygons).Entities()[0].Movable)

	st := d.Draw(&recordCanvas{}, gg.Identity())
	// multi-points share the point layer but have no marker shape
	assert.Equal(t, 3, st.Drawn)
	assert.Equal(t, 2, st.Failed)
}

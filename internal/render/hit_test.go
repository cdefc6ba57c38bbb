package render

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportray/internal/geom"
)

func TestHitTestWithoutCache(t *testing.T) {
	w := NewWrapper(geom.Pt(0, 0))
	assert.False(t, HitTestDefault(w, Rect(-1, -1, 2, 2)))
	assert.Nil(t, w.Shape())
	assert.False(t, HitTestDefault(nil, Rect(0, 0, 1, 1)))
}

func TestHitTest(t *testing.T) {
	poly := NewWrapper(geom.Polygon{Exterior: square(0, 0, 10), Holes: []geom.Ring{square(4, 4, 2)}})
	line := NewWrapper(geom.LineString{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	for _, w := range []*Wrapper{poly, line} {
		require.NoError(t, Render(&recordCanvas{}, w, DefaultStyle(), gg.Identity()))
	}

	tests := []struct {
		name string
		w    *Wrapper
		r    gg.Rect
		slop float64
		want bool
	}{
		{"polygon edge", poly, Rect(9.5, 5, 1, 1), 0, true},
		{"polygon interior", poly, Rect(1, 1, 1, 1), 0, true},
		{"hole with same winding stays filled", poly, Rect(4.5, 4.5, 0.5, 0.5), 0, true},
		{"polygon outside", poly, Rect(20, 20, 1, 1), 0, false},
		{"slop reaches edge", poly, Rect(10.5, 5, 0.2, 0.2), 2, true},
		{"no slop misses edge", poly, Rect(10.5, 5, 0.2, 0.2), 0, false},
		{"line vertex", line, Rect(9.9, -0.1, 0.2, 0.2), 0, true},
		{"line crossing", line, Rect(4, -1, 1, 2), 0, true},
		{"inside implicit closure", line, Rect(8, 2, 0.5, 0.5), 0, true},
		{"outside implicit closure", line, Rect(2, 8, 0.5, 0.5), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(tt.w, tt.r, tt.slop))
		})
	}
}

func TestHitTestPointMarker(t *testing.T) {
	w := NewWrapper(geom.Pt(10, 10))
	require.NoError(t, Render(&recordCanvas{}, w, Style{Scale: 2}, gg.Identity()))
	assert.True(t, HitTestDefault(w, Rect(10, 10, 0, 0)))
	assert.True(t, HitTestDefault(w, Rect(13.5, 10, 0, 0)))
	assert.False(t, HitTestDefault(w, Rect(15, 15, 0, 0)))
}

func TestLayerDrawContinuesPastFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	l := NewLayer("mixed", DefaultStyle())
	l.Log = log
	l.Add(geom.Feature{Geometry: geom.Pt(1, 1)})
	l.Add(geom.Feature{Geometry: geom.Collection{geom.Pt(0, 0)}})
	l.Add(geom.Feature{Geometry: geom.LineString(nil)})
	l.Add(geom.Feature{Geometry: geom.Polygon{Exterior: square(0, 0, 1)}})

	c := &recordCanvas{}
	st := l.Draw(c, gg.Identity())
	assert.Equal(t, DrawStats{Drawn: 2, Skipped: 1, Failed: 1}, st)
	assert.Len(t, c.calls, 2)
	assert.Contains(t, buf.String(), "GeometryCollection")
	assert.Contains(t, buf.String(), "layer=mixed")
}

func TestDisplayHitOrder(t *testing.T) {
	bottom := NewLayer("bottom", DefaultStyle())
	top := NewLayer("top", Style{Paint: color.Black})
	a := bottom.Add(geom.Feature{Geometry: geom.Polygon{Exterior: square(0, 0, 10)}})
	b := bottom.Add(geom.Feature{Geometry: geom.Polygon{Exterior: square(20, 20, 10)}})
	c := top.Add(geom.Feature{Geometry: geom.LineString{{X: 0, Y: 5}, {X: 10, Y: 5}}})
	d := &Display{Layers: []*Layer{bottom, top}}

	assert.Empty(t, d.Hit(Rect(5, 5, 0, 0), 2), "nothing drawn yet")

	d.Draw(&recordCanvas{}, gg.Identity())
	assert.Equal(t, []*Entity{c, a}, d.Hit(Rect(5, 5, 0, 0), 2))
	assert.Equal(t, []*Entity{b}, d.Hit(Rect(25, 25, 1, 1), 2))

	// a new transform moves the cached paths and the index follows
	d.Draw(&recordCanvas{}, gg.Translate(100, 0))
	assert.Empty(t, d.Hit(Rect(25, 25, 1, 1), 2))
	assert.Equal(t, []*Entity{b}, d.Hit(Rect(125, 25, 1, 1), 2))

	top.Hidden = true
	assert.Equal(t, []*Entity{a}, d.Hit(Rect(105, 5, 0, 0), 2))
	assert.Same(t, top, d.Layer("top"))
	assert.Nil(t, d.Layer("missing"))
}

func TestLayerHitFollowsDirectRender(t *testing.T) {
	l := NewLayer("sites", DefaultStyle())
	e := l.Add(geom.Feature{Geometry: geom.Polygon{Exterior: square(0, 0, 10)}})
	l.Draw(&recordCanvas{}, gg.Identity())
	assert.Equal(t, []*Entity{e}, l.Hit(Rect(5, 5, 0, 0), 2))

	// rendering the wrapper outside Draw still moves the indexed bounds
	require.NoError(t, Render(&recordCanvas{}, e.Wrapper, l.Style, gg.Translate(0, 100)))
	assert.Empty(t, l.Hit(Rect(5, 5, 0, 0), 2))
	assert.Equal(t, []*Entity{e}, l.Hit(Rect(5, 105, 0, 0), 2))
}

func TestMovableLayer(t *testing.T) {
	l := NewLayer("tracks", DefaultStyle())
	still := l.Add(geom.Feature{Geometry: geom.Pt(1, 1)})
	l.Movable = true
	moving := l.Add(geom.Feature{Geometry: geom.Pt(2, 2)})
	assert.False(t, still.Movable)
	assert.True(t, moving.Movable)
	assert.Equal(t, []*Entity{still, moving}, l.Entities())

	l.Draw(&recordCanvas{}, gg.Identity())
	before := moving.Shape()
	l.Draw(&recordCanvas{}, gg.Identity())
	assert.NotSame(t, before, moving.Shape())
}

func TestHitTestClosesOpenRings(t *testing.T) {
	// the ring lacks its closing coordinate; the interior still counts
	w := NewWrapper(geom.Polygon{Exterior: geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}})
	require.NoError(t, Render(&recordCanvas{}, w, DefaultStyle(), gg.Identity()))
	assert.True(t, HitTest(w, Rect(8, 2, 0, 0), 2))
	assert.False(t, HitTest(w, Rect(2, 8, 0, 0), 2))
}

package render

import (
	cgeom "github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"

	"geoportray/internal/geom"
)

// indexPad grows index boxes so zero-width bounds of axis-aligned lines
// still register with the tree.
const indexPad = 0.5

// Entity is one drawable feature of a layer.
type Entity struct {
	*Wrapper
	Feature geom.Feature
}

// DrawStats summarizes one draw pass.
type DrawStats struct {
	Drawn   int
	Skipped int
	Failed  int
}

func (s DrawStats) add(o DrawStats) DrawStats {
	return DrawStats{Drawn: s.Drawn + o.Drawn, Skipped: s.Skipped + o.Skipped, Failed: s.Failed + o.Failed}
}

// Layer draws a set of features with one style.
type Layer struct {
	Name   string
	Style  Style
	Hidden bool
	Log    logrus.FieldLogger

	// Movable marks every entity added afterwards as movable.
	Movable bool

	entities []*Entity
	index    *rtree.Rtree
	// indexed holds the cached path of each entity as of the last reindex.
	indexed []*gg.Path
}

// NewLayer returns an empty layer logging to the standard logrus logger.
func NewLayer(name string, s Style) *Layer {
	return &Layer{Name: name, Style: s, Log: logrus.StandardLogger()}
}

// Add wraps f and appends it to the layer.
func (l *Layer) Add(f geom.Feature) *Entity {
	e := &Entity{Wrapper: NewWrapper(f.Geometry), Feature: f}
	e.Movable = f.Movable || l.Movable
	l.entities = append(l.entities, e)
	return e
}

// Entities returns the layer contents in insertion order.
func (l *Layer) Entities() []*Entity { return l.entities }

// Len returns the number of entities.
func (l *Layer) Len() int { return len(l.entities) }

// Draw renders every entity. A failing entity is logged and skipped for this
// pass; the rest of the layer is still drawn.
func (l *Layer) Draw(c Canvas, m gg.Matrix) DrawStats {
	var st DrawStats
	if l.Hidden {
		return st
	}
	for i, e := range l.entities {
		if e.Geometry == nil || e.Geometry.IsEmpty() {
			st.Skipped++
			continue
		}
		if err := Render(c, e.Wrapper, l.Style, m); err != nil {
			st.Failed++
			l.Log.WithFields(logrus.Fields{
				"layer": l.Name,
				"index": i,
				"kind":  e.Geometry.Kind().String(),
			}).WithError(err).Warn("render: skipping entity")
			continue
		}
		st.Drawn++
	}
	return st
}

type indexEntry struct {
	cgeom.Polygon
	e *Entity
}

// stale reports whether an entity was added or had its path rebuilt since
// the last reindex, whether through Draw or a direct Render.
func (l *Layer) stale() bool {
	if l.index == nil || len(l.indexed) != len(l.entities) {
		return true
	}
	for i, e := range l.entities {
		if e.shape != l.indexed[i] {
			return true
		}
	}
	return false
}

func (l *Layer) reindex() {
	l.index = rtree.NewTree(25, 50)
	l.indexed = l.indexed[:0]
	for _, e := range l.entities {
		l.indexed = append(l.indexed, e.shape)
		b, ok := e.Bounds()
		if !ok {
			continue
		}
		x0, y0 := b.Min.X-indexPad, b.Min.Y-indexPad
		x1, y1 := b.Max.X+indexPad, b.Max.Y+indexPad
		l.index.Insert(&indexEntry{
			Polygon: cgeom.Polygon{{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}},
			e:       e,
		})
	}
}

// Hit returns the entities whose cached paths touch r grown by slop/2, in
// insertion order. Entities never drawn are not hit.
func (l *Layer) Hit(r gg.Rect, slop float64) []*Entity {
	if l.Hidden || len(l.entities) == 0 {
		return nil
	}
	if l.stale() {
		l.reindex()
	}
	half := slop / 2
	q := &cgeom.Bounds{
		Min: cgeom.Point{X: r.Min.X - half, Y: r.Min.Y - half},
		Max: cgeom.Point{X: r.Max.X + half, Y: r.Max.Y + half},
	}
	cand := make(map[*Entity]bool)
	for _, g := range l.index.SearchIntersect(q) {
		if ie, ok := g.(*indexEntry); ok {
			cand[ie.e] = true
		}
	}
	var out []*Entity
	for _, e := range l.entities {
		if cand[e] && HitTest(e.Wrapper, r, slop) {
			out = append(out, e)
		}
	}
	return out
}

// Display is an ordered stack of layers; later layers draw on top.
type Display struct {
	Layers []*Layer
}

// Layer returns the named layer, or nil.
func (d *Display) Layer(name string) *Layer {
	for _, l := range d.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Draw draws all layers bottom to top.
func (d *Display) Draw(c Canvas, m gg.Matrix) DrawStats {
	var st DrawStats
	for _, l := range d.Layers {
		st = st.add(l.Draw(c, m))
	}
	return st
}

// Hit returns hits from the top-most layer first.
func (d *Display) Hit(r gg.Rect, slop float64) []*Entity {
	var out []*Entity
	for i := len(d.Layers) - 1; i >= 0; i-- {
		out = append(out, d.Layers[i].Hit(r, slop)...)
	}
	return out
}

// Package render turns geometries into device-space paths under an affine
// transform, caches the result on a Wrapper and answers hit-test queries
// against the cached path.
//
// A Wrapper is not safe for concurrent use. The cache check and the cache
// update in Render form one critical section; a multi-threaded caller must
// serialize access per wrapper.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/gg"

	"geoportray/internal/geom"
)

var (
	// ErrUnsupportedGeometryKind is returned for geometry kinds the engine
	// cannot draw, e.g. collections.
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")
	// ErrInvalidCoordinateSequence is returned for a line or ring without
	// coordinates.
	ErrInvalidCoordinateSequence = errors.New("invalid coordinate sequence")
)

// markerSize is the point marker diameter at scale 1.
const markerSize = 3.0

// Style controls how a geometry is painted.
type Style struct {
	// Paint is applied before drawing. Nil leaves the canvas paint as is.
	Paint color.Color
	// Scale sizes point markers only. Zero means 1.
	Scale float64
	// Filled selects fill over stroke. Line geometries are always stroked.
	Filled bool
}

// DefaultStyle is a filled gray style at scale 1.
func DefaultStyle() Style {
	return Style{Paint: color.Gray{Y: 128}, Scale: 1.0, Filled: true}
}

// Canvas receives the single draw call issued per Render.
type Canvas interface {
	SetPaint(c color.Color)
	Fill(p *gg.Path) error
	Stroke(p *gg.Path) error
}

// Wrapper owns a geometry and its cached device-space path.
type Wrapper struct {
	Geometry geom.Geometry
	// Movable geometries are rebuilt on every Render.
	Movable bool

	shape     *gg.Path
	transform gg.Matrix
}

// NewWrapper wraps g with an empty cache.
func NewWrapper(g geom.Geometry) *Wrapper {
	return &Wrapper{Geometry: g}
}

// Shape returns the cached device-space path, or nil before the first
// successful Render.
func (w *Wrapper) Shape() *gg.Path { return w.shape }

// Transform returns the matrix the cached path was built with.
func (w *Wrapper) Transform() gg.Matrix { return w.transform }

// Bounds returns the device-space bounds of the cached path.
func (w *Wrapper) Bounds() (gg.Rect, bool) {
	if w.shape == nil {
		return gg.Rect{}, false
	}
	return w.shape.BoundingBox(), true
}

func (w *Wrapper) stale(m gg.Matrix) bool {
	return w.Movable || w.shape == nil || w.transform != m
}

// Render draws w on c with style s under transform m, rebuilding the cached
// path when it is stale. Empty geometries are skipped without touching the
// canvas or the cache. On error the cache is left as it was and nothing is
// drawn.
func Render(c Canvas, w *Wrapper, s Style, m gg.Matrix) error {
	if w.Geometry == nil || w.Geometry.IsEmpty() {
		return nil
	}
	if !renderable(w.Geometry) {
		return fmt.Errorf("render %s: %w", w.Geometry.Kind(), ErrUnsupportedGeometryKind)
	}
	if w.stale(m) {
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		p, err := buildShape(w.Geometry, scale, m)
		if err != nil {
			return err
		}
		w.shape = p
		w.transform = m
	}
	if s.Paint != nil {
		c.SetPaint(s.Paint)
	}
	if s.Filled && fillable(w.Geometry) {
		return c.Fill(w.shape)
	}
	return c.Stroke(w.shape)
}

func renderable(g geom.Geometry) bool {
	switch g.(type) {
	case geom.Point, geom.LineString, geom.Polygon, geom.MultiLineString, geom.MultiPolygon:
		return true
	}
	return false
}

// fillable is false for line work, which has no interior to fill.
func fillable(g geom.Geometry) bool {
	switch g.(type) {
	case geom.LineString, geom.MultiLineString:
		return false
	}
	return true
}

// buildShape builds the device-space path for g. The result is a fresh path
// so a failure never leaves a half-built cache behind.
func buildShape(g geom.Geometry, scale float64, m gg.Matrix) (*gg.Path, error) {
	switch t := g.(type) {
	case geom.Point:
		return pointPath(t, scale, m), nil
	case geom.LineString:
		return seqPath(t, m)
	case geom.Polygon:
		return polygonPath(t, m)
	case geom.MultiLineString:
		out := gg.NewPath()
		for i, ls := range t {
			p, err := seqPath(ls, m)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
			appendPath(out, p)
		}
		return out, nil
	case geom.MultiPolygon:
		out := gg.NewPath()
		for i, poly := range t {
			p, err := polygonPath(poly, m)
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			appendPath(out, p)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("render %s: %w", g.Kind(), ErrUnsupportedGeometryKind)
	}
}

// pointPath is a marker ellipse of diameter 3*scale centred on the point.
func pointPath(pt geom.Point, scale float64, m gg.Matrix) *gg.Path {
	r := markerSize * scale / 2
	p := gg.NewPath()
	p.Ellipse(pt.X, pt.Y, r, r)
	return p.Transform(m)
}

// polygonPath appends the holes after the exterior ring, in declaration
// order.
func polygonPath(poly geom.Polygon, m gg.Matrix) (*gg.Path, error) {
	p, err := seqPath(poly.Exterior, m)
	if err != nil {
		return nil, fmt.Errorf("exterior ring: %w", err)
	}
	for i, h := range poly.Holes {
		hp, err := seqPath(h, m)
		if err != nil {
			return nil, fmt.Errorf("interior ring %d: %w", i, err)
		}
		appendPath(p, hp)
	}
	return p, nil
}

// seqPath builds a polyline through coords in geometry space and transforms
// the finished path once.
func seqPath[S ~[]geom.Coord](coords S, m gg.Matrix) (*gg.Path, error) {
	if len(coords) == 0 {
		return nil, ErrInvalidCoordinateSequence
	}
	p := gg.NewPath()
	p.MoveTo(coords[0].X, coords[0].Y)
	for _, c := range coords[1:] {
		p.LineTo(c.X, c.Y)
	}
	return p.Transform(m), nil
}

// appendPath copies the elements of src onto dst without connecting them.
func appendPath(dst, src *gg.Path) {
	for _, el := range src.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			dst.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dst.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dst.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dst.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dst.Close()
		}
	}
}

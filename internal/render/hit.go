package render

import (
	"math"

	"github.com/gogpu/gg"
)

// DefaultSlop is the hit-test margin in device units.
const DefaultSlop = 2.0

// flattenTolerance bounds the chord error when curves are split into
// segments for hit-testing.
const flattenTolerance = 0.1

// Rect returns the device rectangle with origin (x, y) and size (w, h).
func Rect(x, y, w, h float64) gg.Rect {
	return gg.NewRect(gg.Pt(x, y), gg.Pt(x+w, y+h))
}

// HitTestDefault is HitTest with DefaultSlop.
func HitTestDefault(w *Wrapper, r gg.Rect) bool {
	return HitTest(w, r, DefaultSlop)
}

// HitTest reports whether r, grown by slop/2 on every side, touches the
// cached path of w: its outline or its non-zero interior. A wrapper that has
// never been rendered is never hit; HitTest does not build the cache.
func HitTest(w *Wrapper, r gg.Rect, slop float64) bool {
	if w == nil || w.shape == nil {
		return false
	}
	half := slop / 2
	q := gg.Rect{
		Min: gg.Pt(r.Min.X-half, r.Min.Y-half),
		Max: gg.Pt(r.Max.X+half, r.Max.Y+half),
	}
	return intersects(w.shape, q)
}

func intersects(p *gg.Path, q gg.Rect) bool {
	if !overlaps(p.BoundingBox(), q) {
		return false
	}
	hit := false
	eachSegment(p, func(a, b gg.Point, implicit bool) bool {
		if !implicit && segmentHitsRect(a, b, q) {
			hit = true
			return false
		}
		return true
	})
	if hit {
		return true
	}
	// No edge crosses the rectangle, so it is either fully inside or fully
	// outside the filled region; its centre decides.
	return winding(p, gg.Pt((q.Min.X+q.Max.X)/2, (q.Min.Y+q.Max.Y)/2)) != 0
}

func overlaps(a, b gg.Rect) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X && a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// winding is the non-zero winding number of pt with every open subpath
// implicitly closed, the way a filled path is painted.
func winding(p *gg.Path, pt gg.Point) int {
	n := 0
	eachSegment(p, func(a, b gg.Point, _ bool) bool {
		switch {
		case a.Y <= pt.Y && b.Y > pt.Y:
			if isLeft(a, b, pt) > 0 {
				n++
			}
		case a.Y > pt.Y && b.Y <= pt.Y:
			if isLeft(a, b, pt) < 0 {
				n--
			}
		}
		return true
	})
	return n
}

func isLeft(a, b, pt gg.Point) float64 {
	return (b.X-a.X)*(pt.Y-a.Y) - (pt.X-a.X)*(b.Y-a.Y)
}

// eachSegment calls fn for every straight segment of p after flattening.
// Closed subpaths report their closing segment; open subpaths report one
// with implicit set. fn returns false to stop.
func eachSegment(p *gg.Path, fn func(a, b gg.Point, implicit bool) bool) {
	var cur, start gg.Point
	open := false
	emit := func(to gg.Point) bool {
		ok := fn(cur, to, false)
		cur = to
		return ok
	}
	finish := func() bool {
		if !open {
			return true
		}
		open = false
		return fn(cur, start, true)
	}
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			if !finish() {
				return
			}
			cur, start = e.Point, e.Point
			open = true
			// a lone MoveTo still marks a position
			if !fn(cur, cur, false) {
				return
			}
		case gg.LineTo:
			if !emit(e.Point) {
				return
			}
		case gg.QuadTo, gg.CubicTo:
			for _, pt := range curvePoints(cur, e) {
				if !emit(pt) {
					return
				}
			}
		case gg.Close:
			open = false
			if !emit(start) {
				return
			}
		}
	}
	finish()
}

// curvePoints flattens a quadratic or cubic element starting at cur. The
// result excludes cur.
func curvePoints(cur gg.Point, el gg.PathElement) []gg.Point {
	sub := gg.NewPath()
	sub.MoveTo(cur.X, cur.Y)
	switch e := el.(type) {
	case gg.QuadTo:
		sub.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
	case gg.CubicTo:
		sub.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
	default:
		return nil
	}
	pts := sub.Flatten(flattenTolerance)
	if len(pts) == 0 {
		return nil
	}
	return pts[1:]
}

// Polylines flattens p into one point list per subpath. A closed subpath
// ends on its first point.
func Polylines(p *gg.Path) [][]gg.Point {
	var out [][]gg.Point
	var cur []gg.Point
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			flush()
			cur = []gg.Point{e.Point}
		case gg.LineTo:
			cur = append(cur, e.Point)
		case gg.QuadTo, gg.CubicTo:
			if len(cur) == 0 {
				continue
			}
			cur = append(cur, curvePoints(cur[len(cur)-1], e)...)
		case gg.Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return out
}

// segmentHitsRect is a Liang-Barsky clip of segment ab against q.
func segmentHitsRect(a, b gg.Point, q gg.Rect) bool {
	if q.Contains(a) || q.Contains(b) {
		return true
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	clip := func(p, r float64) bool {
		if p == 0 {
			return r >= 0
		}
		t := r / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = math.Min(t1, t)
		}
		return true
	}
	return clip(-dx, a.X-q.Min.X) &&
		clip(dx, q.Max.X-a.X) &&
		clip(-dy, a.Y-q.Min.Y) &&
		clip(dy, q.Max.Y-a.Y) &&
		t0 <= t1
}

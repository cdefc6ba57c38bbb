package geom

import "math"

// Bounds returns the bounding box of g. Empty geometries give an invalid box.
func Bounds(g Geometry) BBox {
	b := EmptyBBox()
	eachCoord(g, func(c Coord) { b = b.Extend(c) })
	return b
}

// Centroid is the centre of the bounding box of g. It reports false for an
// empty geometry.
func Centroid(g Geometry) (Coord, bool) {
	b := Bounds(g)
	if !b.Valid() {
		return Coord{}, false
	}
	return Coord{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}, true
}

// NumPoints counts every coordinate in g, ring closures included.
func NumPoints(g Geometry) int {
	n := 0
	eachCoord(g, func(Coord) { n++ })
	return n
}

// Length is the total length of all line work in g, polygon boundaries
// included.
func Length(g Geometry) float64 {
	switch t := g.(type) {
	case LineString:
		return seqLength(t)
	case Polygon:
		l := seqLength(t.Exterior)
		for _, h := range t.Holes {
			l += seqLength(h)
		}
		return l
	case MultiLineString:
		var l float64
		for _, ls := range t {
			l += seqLength(ls)
		}
		return l
	case MultiPolygon:
		var l float64
		for _, p := range t {
			l += Length(p)
		}
		return l
	case Collection:
		var l float64
		for _, c := range t {
			l += Length(c)
		}
		return l
	}
	return 0
}

// Area is the planar area of the polygonal parts of g with holes removed.
func Area(g Geometry) float64 {
	switch t := g.(type) {
	case Polygon:
		a := math.Abs(ringArea(t.Exterior))
		for _, h := range t.Holes {
			a -= math.Abs(ringArea(h))
		}
		return a
	case MultiPolygon:
		var a float64
		for _, p := range t {
			a += Area(p)
		}
		return a
	case Collection:
		var a float64
		for _, c := range t {
			a += Area(c)
		}
		return a
	}
	return 0
}

func seqLength[S ~[]Coord](s S) float64 {
	var l float64
	for i := 1; i < len(s); i++ {
		l += math.Hypot(s[i].X-s[i-1].X, s[i].Y-s[i-1].Y)
	}
	return l
}

// ringArea is the signed shoelace area; positive for counter-clockwise rings.
func ringArea(r Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	var s float64
	for i := range r {
		j := (i + 1) % len(r)
		s += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return s / 2
}

func eachCoord(g Geometry, fn func(Coord)) {
	switch t := g.(type) {
	case Point:
		if !t.Empty {
			fn(t.Coord)
		}
	case LineString:
		for _, c := range t {
			fn(c)
		}
	case Polygon:
		for _, c := range t.Exterior {
			fn(c)
		}
		for _, h := range t.Holes {
			for _, c := range h {
				fn(c)
			}
		}
	case MultiPoint:
		for _, p := range t {
			eachCoord(p, fn)
		}
	case MultiLineString:
		for _, ls := range t {
			eachCoord(ls, fn)
		}
	case MultiPolygon:
		for _, p := range t {
			eachCoord(p, fn)
		}
	case Collection:
		for _, c := range t {
			eachCoord(c, fn)
		}
	}
}

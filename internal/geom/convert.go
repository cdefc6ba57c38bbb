package geom

import (
	"fmt"

	cgeom "github.com/ctessum/geom"
)

// FromCtessum converts a geometry from github.com/ctessum/geom, the provider
// used by the shapefile and GeoJSON decoders.
func FromCtessum(g cgeom.Geom) (Geometry, error) {
	switch t := g.(type) {
	case cgeom.Point:
		return Pt(t.X, t.Y), nil
	case cgeom.MultiPoint:
		mp := make(MultiPoint, 0, len(t))
		for _, p := range t {
			mp = append(mp, Pt(p.X, p.Y))
		}
		return mp, nil
	case cgeom.LineString:
		ls := make(LineString, 0, len(t))
		for _, p := range t {
			ls = append(ls, Coord{X: p.X, Y: p.Y})
		}
		return ls, nil
	case cgeom.MultiLineString:
		ml := make(MultiLineString, 0, len(t))
		for _, l := range t {
			c, err := FromCtessum(l)
			if err != nil {
				return nil, err
			}
			ml = append(ml, c.(LineString))
		}
		return ml, nil
	case cgeom.Polygon:
		return polygonFromCtessum(t), nil
	case cgeom.MultiPolygon:
		mp := make(MultiPolygon, 0, len(t))
		for _, p := range t {
			mp = append(mp, polygonFromCtessum(p))
		}
		return mp, nil
	case cgeom.GeometryCollection:
		gc := make(Collection, 0, len(t))
		for _, c := range t {
			cg, err := FromCtessum(c)
			if err != nil {
				return nil, err
			}
			gc = append(gc, cg)
		}
		return gc, nil
	}
	return nil, fmt.Errorf("geom: unsupported provider geometry %T", g)
}

func polygonFromCtessum(p cgeom.Polygon) Polygon {
	var out Polygon
	for i, path := range p {
		r := make(Ring, 0, len(path))
		for _, pt := range path {
			r = append(r, Coord{X: pt.X, Y: pt.Y})
		}
		if i == 0 {
			out.Exterior = r
		} else {
			out.Holes = append(out.Holes, r)
		}
	}
	return out
}

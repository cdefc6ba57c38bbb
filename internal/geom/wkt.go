package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrWKT = errors.New("wkt: invalid")

// ParseWKT parses POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON,
// MULTIPOLYGON and GEOMETRYCOLLECTION text. Any of them may be EMPTY.
func ParseWKT(wkt string) (Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	// longest names first so MULTIPOINT does not match POINT
	for _, kw := range []string{"GEOMETRYCOLLECTION", "MULTILINESTRING", "MULTIPOLYGON", "MULTIPOINT", "LINESTRING", "POLYGON", "POINT"} {
		if !strings.HasPrefix(up, kw) {
			continue
		}
		rest := strings.TrimSpace(s[len(kw):])
		// drop Z/M/ZM dimension tags; extra ordinates are ignored below
		for _, dim := range []string{"ZM", "Z", "M"} {
			if strings.HasPrefix(strings.ToUpper(rest), dim+" ") || strings.HasPrefix(strings.ToUpper(rest), dim+"(") {
				rest = strings.TrimSpace(rest[len(dim):])
				break
			}
		}
		if strings.EqualFold(rest, "EMPTY") {
			return emptyOf(kw), nil
		}
		body, err := unwrap(rest)
		if err != nil {
			return nil, fmt.Errorf("wkt %s: %w", strings.ToLower(kw), err)
		}
		g, err := parseBody(kw, body)
		if err != nil {
			return nil, fmt.Errorf("wkt %s: %w", strings.ToLower(kw), err)
		}
		return g, nil
	}
	return nil, errors.New("unsupported wkt type")
}

// ParseWKTData parses WKT into a single-feature dataset.
func ParseWKTData(wkt string) (Dataset, error) {
	g, err := ParseWKT(wkt)
	if err != nil {
		return Dataset{}, err
	}
	var d Dataset
	d.add(Feature{Geometry: g})
	return d, nil
}

func emptyOf(kw string) Geometry {
	switch kw {
	case "POINT":
		return Point{Empty: true}
	case "LINESTRING":
		return LineString(nil)
	case "POLYGON":
		return Polygon{}
	case "MULTIPOINT":
		return MultiPoint(nil)
	case "MULTILINESTRING":
		return MultiLineString(nil)
	case "MULTIPOLYGON":
		return MultiPolygon(nil)
	}
	return Collection(nil)
}

func parseBody(kw, body string) (Geometry, error) {
	switch kw {
	case "POINT":
		cs, err := parseTuples(body)
		if err != nil {
			return nil, err
		}
		if len(cs) != 1 {
			return nil, ErrWKT
		}
		return Point{Coord: cs[0]}, nil
	case "LINESTRING":
		cs, err := parseTuples(body)
		if err != nil {
			return nil, err
		}
		return LineString(cs), nil
	case "POLYGON":
		return parsePolygon(body)
	case "MULTIPOINT":
		var mp MultiPoint
		for _, part := range splitTop(body) {
			// both MULTIPOINT((1 2),(3 4)) and MULTIPOINT(1 2, 3 4) occur
			if inner, err := unwrap(part); err == nil {
				part = inner
			}
			cs, err := parseTuples(part)
			if err != nil {
				return nil, err
			}
			for _, c := range cs {
				mp = append(mp, Point{Coord: c})
			}
		}
		return mp, nil
	case "MULTILINESTRING":
		var ml MultiLineString
		for _, part := range splitTop(body) {
			inner, err := unwrap(part)
			if err != nil {
				return nil, err
			}
			cs, err := parseTuples(inner)
			if err != nil {
				return nil, err
			}
			ml = append(ml, LineString(cs))
		}
		return ml, nil
	case "MULTIPOLYGON":
		var mp MultiPolygon
		for _, part := range splitTop(body) {
			inner, err := unwrap(part)
			if err != nil {
				return nil, err
			}
			p, err := parsePolygon(inner)
			if err != nil {
				return nil, err
			}
			mp = append(mp, p)
		}
		return mp, nil
	case "GEOMETRYCOLLECTION":
		var gc Collection
		for _, part := range splitTop(body) {
			g, err := ParseWKT(part)
			if err != nil {
				return nil, err
			}
			gc = append(gc, g)
		}
		return gc, nil
	}
	return nil, ErrWKT
}

func parsePolygon(body string) (Polygon, error) {
	var p Polygon
	for i, part := range splitTop(body) {
		inner, err := unwrap(part)
		if err != nil {
			return Polygon{}, err
		}
		cs, err := parseTuples(inner)
		if err != nil {
			return Polygon{}, err
		}
		if i == 0 {
			p.Exterior = Ring(cs)
		} else {
			p.Holes = append(p.Holes, Ring(cs))
		}
	}
	return p, nil
}

// unwrap strips one pair of enclosing parentheses.
func unwrap(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", ErrWKT
	}
	return s[1 : len(s)-1], nil
}

// splitTop splits on commas that are not nested inside parentheses.
func splitTop(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func parseTuples(block string) ([]Coord, error) {
	var out []Coord
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			return nil, ErrWKT
		}
		x, err1 := strconv.ParseFloat(parts[0], 64)
		y, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return nil, ErrWKT
		}
		out = append(out, Coord{X: x, Y: y})
	}
	return out, nil
}

package geom

import "math"

// Coord is a planar coordinate.
type Coord struct {
	X float64
	Y float64
}

// Kind tags a Geometry variant.
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindPolygon
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLineString:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	case KindCollection:
		return "GeometryCollection"
	}
	return "Unknown"
}

// Geometry is a closed set of vector shapes. The unexported marker keeps
// other packages from adding variants.
type Geometry interface {
	Kind() Kind
	IsEmpty() bool
	geometry()
}

// Point is a single position. The zero value is a point at the origin;
// an empty point is expressed with Empty set.
type Point struct {
	Coord
	Empty bool
}

// LineString is an ordered coordinate sequence.
type LineString []Coord

// Ring is a closed coordinate sequence bounding a polygon or a hole.
type Ring []Coord

// Polygon has one exterior ring and zero or more holes.
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

type MultiPoint []Point

type MultiLineString []LineString

type MultiPolygon []Polygon

// Collection is a heterogeneous geometry collection.
type Collection []Geometry

func (Point) Kind() Kind           { return KindPoint }
func (LineString) Kind() Kind      { return KindLineString }
func (Polygon) Kind() Kind         { return KindPolygon }
func (MultiPoint) Kind() Kind      { return KindMultiPoint }
func (MultiLineString) Kind() Kind { return KindMultiLineString }
func (MultiPolygon) Kind() Kind    { return KindMultiPolygon }
func (Collection) Kind() Kind      { return KindCollection }

func (Point) geometry()           {}
func (LineString) geometry()      {}
func (Polygon) geometry()         {}
func (MultiPoint) geometry()      {}
func (MultiLineString) geometry() {}
func (MultiPolygon) geometry()    {}
func (Collection) geometry()      {}

func (p Point) IsEmpty() bool      { return p.Empty }
func (l LineString) IsEmpty() bool { return len(l) == 0 }
func (p Polygon) IsEmpty() bool    { return len(p.Exterior) == 0 }

func (m MultiPoint) IsEmpty() bool {
	for _, p := range m {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

func (m MultiLineString) IsEmpty() bool {
	for _, l := range m {
		if !l.IsEmpty() {
			return false
		}
	}
	return true
}

func (m MultiPolygon) IsEmpty() bool {
	for _, p := range m {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

func (c Collection) IsEmpty() bool {
	for _, g := range c {
		if g != nil && !g.IsEmpty() {
			return false
		}
	}
	return true
}

// Pt returns a non-empty point.
func Pt(x, y float64) Point { return Point{Coord: Coord{X: x, Y: y}} }

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// EmptyBBox returns a box that any Extend call replaces.
func EmptyBBox() BBox {
	return BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// Valid reports whether the box contains at least one coordinate.
func (b BBox) Valid() bool { return b.MinX <= b.MaxX && b.MinY <= b.MaxY }

// Extend grows the box to contain c.
func (b BBox) Extend(c Coord) BBox {
	b.MinX = math.Min(b.MinX, c.X)
	b.MinY = math.Min(b.MinY, c.Y)
	b.MaxX = math.Max(b.MaxX, c.X)
	b.MaxY = math.Max(b.MaxY, c.Y)
	return b
}

func (b BBox) Union(o BBox) BBox {
	if !o.Valid() {
		return b
	}
	if !b.Valid() {
		return o
	}
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Attribute is one named value attached to a feature. Hidden attributes are
// kept for export but not shown by inspectors.
type Attribute struct {
	Name   string
	Value  string
	Hidden bool
}

// Feature couples a geometry with its attributes and arbitrary user data.
type Feature struct {
	Geometry   Geometry
	Attributes []Attribute
	UserData   any
	Movable    bool
}

// Attr returns the value of the named attribute.
func (f Feature) Attr(name string) (string, bool) {
	for _, a := range f.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Dataset is a loaded collection of features.
type Dataset struct {
	Features []Feature
	BBox     BBox
}

func (d *Dataset) add(f Feature) {
	if len(d.Features) == 0 {
		d.BBox = EmptyBBox()
	}
	d.Features = append(d.Features, f)
	d.BBox = d.BBox.Union(Bounds(f.Geometry))
}

// Counts returns the number of point, line and polygon features, counting
// multi-geometries under their component family.
func (d Dataset) Counts() (points, lines, polygons int) {
	for _, f := range d.Features {
		switch Family(f.Geometry) {
		case KindPoint:
			points++
		case KindLineString:
			lines++
		case KindPolygon:
			polygons++
		}
	}
	return points, lines, polygons
}

// Family collapses multi-geometries onto their component kind.
func Family(g Geometry) Kind {
	if g == nil {
		return KindCollection
	}
	switch g.Kind() {
	case KindPoint, KindMultiPoint:
		return KindPoint
	case KindLineString, KindMultiLineString:
		return KindLineString
	case KindPolygon, KindMultiPolygon:
		return KindPolygon
	}
	return KindCollection
}

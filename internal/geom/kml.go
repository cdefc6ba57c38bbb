package geom

import (
	"encoding/xml"
	"errors"
	"os"
	"strconv"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description"`
	Point       *kmlCoords  `xml:"Point"`
	LineString  *kmlCoords  `xml:"LineString"`
	Polygon     *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Flat       []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlPlacemark `xml:"Document>Folder>Placemark"`
}

// LoadKML extracts Point, LineString and Polygon placemarks. KML coordinates
// are "lon,lat[,alt]"; altitude is ignored. Name and description become
// attributes.
func LoadKML(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Dataset{}, err
	}
	var d Dataset
	all := append(append(doc.Flat, doc.Placemarks...), doc.Folders...)
	for _, pm := range all {
		var g Geometry
		switch {
		case pm.Point != nil:
			cs := parseKMLCoords(pm.Point.Coordinates)
			if len(cs) == 0 {
				continue
			}
			g = Point{Coord: cs[0]}
		case pm.LineString != nil:
			cs := parseKMLCoords(pm.LineString.Coordinates)
			if len(cs) == 0 {
				continue
			}
			g = LineString(cs)
		case pm.Polygon != nil:
			p := Polygon{Exterior: Ring(parseKMLCoords(pm.Polygon.Outer.Coordinates))}
			if len(p.Exterior) == 0 {
				continue
			}
			for _, in := range pm.Polygon.Inner {
				p.Holes = append(p.Holes, Ring(parseKMLCoords(in.Coordinates)))
			}
			g = p
		default:
			continue
		}
		feat := Feature{Geometry: g}
		if pm.Name != "" {
			feat.Attributes = append(feat.Attributes, Attribute{Name: "name", Value: pm.Name})
		}
		if pm.Description != "" {
			feat.Attributes = append(feat.Attributes, Attribute{Name: "description", Value: pm.Description})
		}
		d.add(feat)
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("kml: no placemarks found")
	}
	return d, nil
}

// parseKMLCoords reads whitespace separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) []Coord {
	var out []Coord
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Coord{X: lon, Y: lat})
	}
	return out
}

package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/geom/encoding/geojson"
)

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type geoJSONDoc struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	geoJSONFeature
}

// LoadGeoJSON reads a GeoJSON file: a FeatureCollection, a single Feature or
// a bare geometry object.
func LoadGeoJSON(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	return DecodeGeoJSON(data)
}

// DecodeGeoJSON decodes GeoJSON bytes. Feature properties become attributes
// sorted by name.
func DecodeGeoJSON(data []byte) (Dataset, error) {
	var doc geoJSONDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Dataset{}, err
	}
	var d Dataset
	switch doc.Type {
	case "":
		return Dataset{}, errors.New("invalid geojson: missing type")
	case "FeatureCollection":
		for i, f := range doc.Features {
			feat, err := decodeFeature(f)
			if err != nil {
				return Dataset{}, fmt.Errorf("geojson feature %d: %w", i, err)
			}
			d.add(feat)
		}
	case "Feature":
		feat, err := decodeFeature(doc.geoJSONFeature)
		if err != nil {
			return Dataset{}, fmt.Errorf("geojson feature: %w", err)
		}
		d.add(feat)
	default:
		g, err := decodeGeometry(data)
		if err != nil {
			return Dataset{}, err
		}
		d.add(Feature{Geometry: g})
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("no geometries found")
	}
	return d, nil
}

func decodeFeature(f geoJSONFeature) (Feature, error) {
	if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
		return Feature{}, errors.New("missing geometry")
	}
	g, err := decodeGeometry(f.Geometry)
	if err != nil {
		return Feature{}, err
	}
	names := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	feat := Feature{Geometry: g}
	for _, k := range names {
		feat.Attributes = append(feat.Attributes, Attribute{Name: k, Value: propString(f.Properties[k])})
	}
	return feat, nil
}

func decodeGeometry(raw []byte) (Geometry, error) {
	cg, err := geojson.Decode(raw)
	if err != nil {
		return nil, err
	}
	return FromCtessum(cg)
}

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}

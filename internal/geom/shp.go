package geom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
)

// LoadShapefile reads every record of an ESRI shapefile. All dbf fields are
// kept as attributes in column order, with dbf padding trimmed.
func LoadShapefile(path string) (Dataset, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("shp: opening %s: %v", path, err)
	}
	defer d.Close()

	fields := d.Reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	var ds Dataset
	for {
		g, vals, more := d.DecodeRowFields(names...)
		if !more {
			break
		}
		cg, err := FromCtessum(g)
		if err != nil {
			return Dataset{}, fmt.Errorf("shp: record %d: %v", len(ds.Features), err)
		}
		feat := Feature{Geometry: cg}
		for _, n := range names {
			feat.Attributes = append(feat.Attributes, Attribute{Name: n, Value: strings.Trim(vals[n], " \x00")})
		}
		ds.add(feat)
	}
	if err := d.Error(); err != nil {
		return Dataset{}, fmt.Errorf("shp: reading %s: %v", path, err)
	}
	if len(ds.Features) == 0 {
		return Dataset{}, errors.New("shp: no records found")
	}
	return ds, nil
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt", ".shp"}

// Load reads any supported file, dispatching on its extension.
func Load(path string) (Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".shp":
		return LoadShapefile(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return Dataset{}, err
		}
		return ParseWKTData(string(data))
	default:
		return Dataset{}, fmt.Errorf("unsupported file: %s", ext)
	}
}

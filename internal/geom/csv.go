package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	latNames = []string{"lat", "latitude", "y"}
	lonNames = []string{"lon", "lng", "long", "longitude", "x"}
)

// LoadCSV reads a CSV with latitude/longitude columns and returns one point
// feature per row. Column names are matched case-insensitively against
// latNames and lonNames; the first match wins. Other columns become
// attributes and the coordinate columns are kept as hidden ones. Rows whose
// coordinates do not parse are skipped.
func LoadCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(src io.Reader) (Dataset, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, errors.New("empty csv")
	}
	if err != nil {
		return Dataset{}, err
	}
	latCol, lonCol := columnOf(header, latNames), columnOf(header, lonNames)
	if latCol < 0 || lonCol < 0 {
		return Dataset{}, errors.New("csv: latitude/longitude columns not found")
	}

	var d Dataset
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, err
		}
		pt, ok := rowPoint(row, lonCol, latCol)
		if !ok {
			continue
		}
		feat := Feature{Geometry: pt, Attributes: make([]Attribute, len(header))}
		for i, name := range header {
			var v string
			if i < len(row) {
				v = row[i]
			}
			feat.Attributes[i] = Attribute{Name: name, Value: v, Hidden: i == latCol || i == lonCol}
		}
		d.add(feat)
	}
	if len(d.Features) == 0 {
		return Dataset{}, errors.New("csv: no valid points parsed")
	}
	return d, nil
}

func columnOf(header, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func rowPoint(row []string, lonCol, latCol int) (Point, bool) {
	if lonCol >= len(row) || latCol >= len(row) {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonCol]), 64)
	if err != nil {
		return Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
	if err != nil {
		return Point{}, false
	}
	return Pt(lon, lat), true
}

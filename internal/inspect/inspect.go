// Package inspect describes a feature as a tree of labelled values. Values
// are read lazily so a UI can rebuild its view without rebuilding the tree.
package inspect

import (
	"fmt"
	"strconv"

	"geoportray/internal/geom"
	"geoportray/internal/render"
)

// Row is one labelled value.
type Row struct {
	Label string
	Value func() string
}

// Tab groups rows under a title.
type Tab struct {
	Title string
	Rows  []Row
}

// Table flattens the tab into a two column table.
func (t Tab) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		v := ""
		if r.Value != nil {
			v = r.Value()
		}
		rows = append(rows, []string{r.Label, v})
	}
	return []string{"field", "value"}, rows
}

// Build returns the tabs describing f as drawn through w. w may be nil when
// the feature has never been drawn.
func Build(w *render.Wrapper, f geom.Feature) []Tab {
	g := f.Geometry
	if g == nil {
		return nil
	}
	tabs := []Tab{geometryTab(w, f)}

	var attrs []Row
	for _, a := range f.Attributes {
		if a.Hidden {
			continue
		}
		attrs = append(attrs, Row{Label: a.Name, Value: fixed(a.Value)})
	}
	if len(attrs) > 0 {
		tabs = append(tabs, Tab{Title: "Attributes", Rows: attrs})
	}

	if f.UserData != nil {
		ud := f.UserData
		tabs = append(tabs, Tab{Title: "User Data", Rows: []Row{
			{Label: "type", Value: func() string { return fmt.Sprintf("%T", ud) }},
			{Label: "value", Value: func() string { return fmt.Sprintf("%v", ud) }},
		}})
	}
	return tabs
}

func geometryTab(w *render.Wrapper, f geom.Feature) Tab {
	g := f.Geometry
	return Tab{Title: "Geometry", Rows: []Row{
		{Label: "kind", Value: func() string { return g.Kind().String() }},
		{Label: "points", Value: func() string { return strconv.Itoa(geom.NumPoints(g)) }},
		{Label: "length", Value: func() string { return num(geom.Length(g)) }},
		{Label: "area", Value: func() string { return num(geom.Area(g)) }},
		{Label: "bounds", Value: func() string {
			b := geom.Bounds(g)
			if !b.Valid() {
				return "empty"
			}
			return fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY)
		}},
		{Label: "centroid", Value: func() string {
			c, ok := geom.Centroid(g)
			if !ok {
				return "empty"
			}
			return fmt.Sprintf("[%.5f,%.5f]", c.X, c.Y)
		}},
		{Label: "movable", Value: func() string {
			if w != nil {
				return strconv.FormatBool(w.Movable)
			}
			return strconv.FormatBool(f.Movable)
		}},
		{Label: "cached", Value: func() string {
			return strconv.FormatBool(w != nil && w.Shape() != nil)
		}},
	}}
}

func fixed(s string) func() string { return func() string { return s } }

func num(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

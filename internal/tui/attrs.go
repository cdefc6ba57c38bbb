package tui

import (
	"fmt"
	"path/filepath"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded dataset
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		w := len(c) + 2
		if w > maxColW {
			w = maxColW
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(tcols))
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		// Normalize each row to match the number of table columns
		for len(row) < len(tcols) {
			row = append(row, "")
		}
		trows = append(trows, table.Row(row[:len(tcols)]))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes unions the visible attribute names across features in
// first-seen order and returns one row per feature.
func (m *Model) buildAttributes() ([]string, [][]string) {
	var order []string
	seen := map[string]bool{}
	for _, f := range m.data.Features {
		for _, a := range f.Attributes {
			if !a.Hidden && !seen[a.Name] {
				seen[a.Name] = true
				order = append(order, a.Name)
			}
		}
	}
	if len(order) == 0 {
		if m.selPath == "" {
			// pasted WKT: nothing to tabulate
			return nil, nil
		}
		// fallback: just bbox/summary as a single-row table
		b := m.data.BBox
		pts, ls, polys := m.data.Counts()
		cols := []string{"name", "path", "bbox", "points", "lines", "polygons"}
		vals := []string{filepath.Base(m.selPath), m.selPath, fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY), fmt.Sprintf("%d", pts), fmt.Sprintf("%d", ls), fmt.Sprintf("%d", polys)}
		return cols, [][]string{vals}
	}
	rows := make([][]string, 0, len(m.data.Features))
	for _, f := range m.data.Features {
		vals := make([]string, len(order))
		for i, k := range order {
			vals[i], _ = f.Attr(k)
		}
		rows = append(rows, vals)
	}
	return order, rows
}

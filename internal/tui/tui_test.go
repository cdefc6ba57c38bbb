package tui

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoportray/internal/config"
	"geoportray/internal/geom"
	"geoportray/internal/render"
)

func testModel(t *testing.T, wkt string) (Model, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	m := New(Options{Config: config.Default(), Log: log})
	d, err := geom.ParseWKTData(wkt)
	require.NoError(t, err)
	m.showData(d)
	return m, &buf
}

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestViewTransformCorners(t *testing.T) {
	m, _ := testModel(t, "LINESTRING (10 20, 30 60)")
	mat, ok := m.viewTransform(11, 6)
	require.True(t, ok)

	// west maps to the left edge, north to the top
	nw := mat.TransformPoint(gg.Pt(10, 60))
	se := mat.TransformPoint(gg.Pt(30, 20))
	assert.InDelta(t, 0, nw.X, 1e-9)
	assert.InDelta(t, 0, nw.Y, 1e-9)
	assert.InDelta(t, 21, se.X, 1e-9)
	assert.InDelta(t, 23, se.Y, 1e-9)

	lon, lat, ok := m.cellToLonLat(0, 0, 11, 6)
	require.True(t, ok)
	assert.InDelta(t, 10+10.0/21, lon, 1e-9)
	assert.InDelta(t, 40+400.0/23, lat, 1e-9)

	empty := New(Options{})
	_, ok = empty.viewTransform(11, 6)
	assert.False(t, ok)
}

func TestBrailleCanvasStrokeAndFill(t *testing.T) {
	c := newBrailleCanvas(4, 2)
	c.SetPaint(color.RGBA{R: 255, A: 255})
	assert.Equal(t, "#FF0000", c.fg)

	line := gg.NewPath()
	line.MoveTo(0, 0)
	line.LineTo(7, 0)
	require.NoError(t, c.Stroke(line))
	for x := 0; x < 4; x++ {
		assert.NotZero(t, c.buf.m[0][x]&0x09, "top dots of cell %d", x)
	}
	assert.Zero(t, c.buf.m[1][0])

	sq := gg.NewPath()
	sq.MoveTo(0, 4)
	sq.LineTo(7, 4)
	sq.LineTo(7, 7)
	sq.LineTo(0, 7)
	sq.Close()
	require.NoError(t, c.Fill(sq))
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(0xFF), c.buf.m[1][x])
	}
	assert.Equal(t, "#FF0000", c.buf.fg[1][3])
}

func TestRenderMapAndHit(t *testing.T) {
	m, _ := testModel(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	m.width, m.height = 40, 20
	lo := m.layout()

	text, st := m.renderMap(lo.mapW, lo.mapH)
	assert.Equal(t, 1, st.Drawn)
	assert.Contains(t, text, string(rune(0x28FF)))

	e := m.hitAt(lo.mapW/2, lo.mapH/2)
	require.NotNil(t, e)
	assert.Equal(t, geom.KindPolygon, e.Geometry.Kind())
	assert.Contains(t, inspectText(e), "kind: Polygon")

	m.display.Layer(render.LayerPolygons).Hidden = true
	assert.Nil(t, m.hitAt(lo.mapW/2, lo.mapH/2))
}

func TestUndrawableGeometryIsLogged(t *testing.T) {
	m, buf := testModel(t, "GEOMETRYCOLLECTION (POINT (1 1), POINT (2 2))")
	m.width, m.height = 120, 20
	m.helpVisible = false
	assert.Equal(t, 1, m.display.Layer(render.LayerOther).Len())

	view := m.View()
	assert.Contains(t, view, "skipped 1 undrawable")
	assert.Contains(t, buf.String(), "GeometryCollection")
}

func TestLayerToggleKeys(t *testing.T) {
	m, _ := testModel(t, "POINT (1 1)")
	for _, tt := range []struct{ key, layer, status string }{
		{"1", render.LayerPoints, "points: false"},
		{"2", render.LayerLines, "lines: false"},
		{"3", render.LayerPolygons, "polys: false"},
	} {
		next, _ := m.Update(key(tt.key))
		m = next.(Model)
		assert.False(t, m.layerVisible(tt.layer), tt.key)
		assert.Equal(t, tt.status, m.status)
	}

	next, _ := m.Update(key("l"))
	m = next.(Model)
	for _, name := range []string{render.LayerPoints, render.LayerLines, render.LayerPolygons} {
		assert.True(t, m.layerVisible(name), name)
	}
	next, _ = m.Update(key("l"))
	m = next.(Model)
	assert.False(t, m.layerVisible(render.LayerLines))
}

func TestInspectKey(t *testing.T) {
	m, _ := testModel(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	m.width, m.height = 40, 20
	_ = m.View()

	next, _ := m.Update(key("i"))
	m = next.(Model)
	assert.Equal(t, "inspect popup", m.status)
	assert.True(t, strings.Contains(m.inspectPopup, "area: 100"))

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, next.(Model).inspectPopup)
}

func TestAttributesTable(t *testing.T) {
	m := New(Options{})
	m.showData(geom.Dataset{Features: []geom.Feature{
		{Geometry: geom.Pt(0, 0), Attributes: []geom.Attribute{{Name: "name", Value: "a"}, {Name: "lat", Value: "0", Hidden: true}}},
		{Geometry: geom.Pt(1, 1), Attributes: []geom.Attribute{{Name: "kind", Value: "well"}}},
	}})
	cols, rows := m.buildAttributes()
	assert.Equal(t, []string{"name", "kind"}, cols)
	assert.Equal(t, [][]string{{"a", ""}, {"", "well"}}, rows)

	m.refreshAttrsFromCurrent()
	assert.Len(t, m.tbl.Rows(), 2)
}

func TestReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wkt")
	require.NoError(t, os.WriteFile(path, []byte("POINT (1 1)"), 0o644))

	m := NewWithPath(Options{Config: config.Default(), Log: logrus.New()}, path)
	require.Len(t, m.data.Features, 1)
	m.zoom = 2

	require.NoError(t, os.WriteFile(path, []byte("LINESTRING (1 1, 2 2)"), 0o644))
	cmd := m.handleWatch(fileChangedMsg{path: filepath.Join(dir, "other.wkt")})
	assert.Nil(t, cmd)
	assert.IsType(t, geom.Point{}, m.data.Features[0].Geometry)

	m.handleWatch(fileChangedMsg{path: path})
	require.Len(t, m.data.Features, 1)
	assert.IsType(t, geom.LineString(nil), m.data.Features[0].Geometry)
	assert.Equal(t, 2.0, m.zoom)
	assert.Contains(t, m.status, "reloaded: a.wkt")

	// a broken file keeps the last good data
	require.NoError(t, os.WriteFile(path, []byte("POINT ("), 0o644))
	m.handleWatch(fileChangedMsg{path: path})
	assert.IsType(t, geom.LineString(nil), m.data.Features[0].Geometry)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wkt")
	require.NoError(t, os.WriteFile(path, []byte("POINT (1 1)"), 0o644))

	m := NewWithPath(Options{Config: config.Default(), Log: logrus.New(), Watch: true}, path)
	require.NotNil(t, m.watcher)
	defer m.Close()
	cmd := m.Init()
	require.NotNil(t, cmd)

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	require.NoError(t, os.WriteFile(path, []byte("POINT (2 2)"), 0o644))

	select {
	case msg := <-got:
		ch, ok := msg.(fileChangedMsg)
		require.True(t, ok, "got %T", msg)
		assert.Equal(t, path, ch.path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "sq.wkt", "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	style := writeFile(t, dir, "style.toml", "line_width = 2\n[layers.polygons]\npaint = \"#000000\"\n")
	png := filepath.Join(dir, "sq.png")

	out, _, err := run(t, "export", src, "-o", png, "--width", "64", "--height", "32", "--config", style)
	require.NoError(t, err)
	assert.Contains(t, out, "drawn=1 skipped=0 failed=0")

	b, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), b[:4])
}

func TestExportToStdout(t *testing.T) {
	src := writeFile(t, t.TempDir(), "l.wkt", "LINESTRING (0 0, 5 5)")
	out, errOut, err := run(t, "export", src, "-o", "-", "--width", "40", "--height", "30")
	require.NoError(t, err)
	require.Greater(t, len(out), 8)
	assert.Equal(t, "\x89PNG", out[:4])
	assert.Contains(t, errOut, "-: drawn=1 skipped=0 failed=0")
}

func TestExportReportsUndrawable(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "gc.wkt", "GEOMETRYCOLLECTION (POINT (0 0), POINT (1 1))")
	out, errOut, err := run(t, "export", src, "-o", filepath.Join(dir, "gc.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "failed=1")
	assert.Contains(t, errOut, "render: skipping entity")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "pts.csv", "name,lat,lon\nwell,5,5\n")

	// a single point is centred in the device area
	out, _, err := run(t, "inspect", src, "--x", "400", "--y", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "Geometry")
	assert.Contains(t, out, "Point")
	assert.Contains(t, out, "Attributes")
	assert.Contains(t, out, "well")
	assert.NotContains(t, out, "lat ")

	out, _, err = run(t, "inspect", src, "--x", "10", "--y", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing at (10, 10)")
}

func TestRoute(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "net.wkt", "MULTILINESTRING ((0 0, 10 0), (10 0, 10 10), (0 0, 0 12, 10 12, 10 10))")

	out, _, err := run(t, "route", src, "--from", "0,0", "--to", "10,10")
	require.NoError(t, err)
	assert.Contains(t, out, "total 20 over 2 edges")

	_, _, err = run(t, "route", src, "--from", "0,0", "--to", "5,5")
	assert.Error(t, err)
	_, _, err = run(t, "route", src, "--from", "0")
	assert.Error(t, err)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "p.wkt", "POINT (1 1)")
	style := writeFile(t, dir, "bad.toml", "[default]\npaint = \"nope\"\n")
	_, _, err := run(t, "export", src, "--config", style, "-o", filepath.Join(dir, "p.png"))
	assert.ErrorContains(t, err, "bad color")
}

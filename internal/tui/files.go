package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/sirupsen/logrus"

	"geoportray/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if slices.Contains(geom.Extensions, ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads any supported format into the model.
func (m *Model) loadPath(p string) {
	d, err := geom.Load(p)
	if err != nil {
		m.log.WithFields(logrus.Fields{"path": p}).WithError(err).Error("load failed")
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.watch(p)
	m.showData(d)
	m.status = "loaded: " + filepath.Base(p) + "  " + countsText(d)
	// If attributes are currently shown, verify availability for the new dataset
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// showData installs d and resets the viewport for immediate visibility.
func (m *Model) showData(d geom.Dataset) {
	m.setData(d)
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.log.WithFields(logrus.Fields{"features": len(d.Features)}).Debug("dataset loaded")
}

func countsText(d geom.Dataset) string {
	pts, ls, polys := d.Counts()
	return fmt.Sprintf("counts: pts=%d ls=%d poly=%d", pts, ls, polys)
}

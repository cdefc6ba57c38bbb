package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"geoportray/internal/config"
	"geoportray/internal/geom"
	"geoportray/internal/render"
)

// Options configures a Model.
type Options struct {
	Config config.Config
	Log    logrus.FieldLogger
	// Watch reloads the open file when it changes on disk.
	Watch bool
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	cfg config.Config
	log logrus.FieldLogger

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	data    geom.Dataset
	display *render.Display

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	hoverHit    *render.Entity

	// attributes table
	showAttrs bool
	tbl       table.Model

	// file watching
	watching bool
	watcher  *fsnotify.Watcher
	watchDir string
	waiting  bool
}

func New(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geoportray ready",
		cfg:         opts.Config,
		log:         opts.Log,
		watching:    opts.Watch,
	}
	m.setData(geom.Dataset{})
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON and their MULTI forms). Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(opts Options, path string) Model {
	m := New(opts)
	m.loadPath(path)
	m.waiting = m.watcher != nil
	return m
}

func (m Model) Init() tea.Cmd {
	if m.waiting {
		return m.waitForChange()
	}
	return nil
}

// setData replaces the dataset and rebuilds the layer stack.
func (m *Model) setData(d geom.Dataset) {
	m.data = d
	m.display = render.NewFamilyDisplay(d.Features, m.cfg.LayerFor, m.log)
	m.hoverHit = nil
	m.inspectPopup = ""
}

// toggleLayer flips the visibility of the named layer and returns the new
// state.
func (m *Model) toggleLayer(name string) bool {
	l := m.display.Layer(name)
	if l == nil {
		return false
	}
	l.Hidden = !l.Hidden
	return !l.Hidden
}

func (m Model) layerVisible(name string) bool {
	l := m.display.Layer(name)
	return l != nil && !l.Hidden
}

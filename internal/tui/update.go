package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoportray/internal/geom"
	"geoportray/internal/render"
)

const sidebarWidth = 28

// layout is the screen placement of the map area; View and mouse handling
// must agree on it.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth
	}
	headerHeight := 1
	footerHeight := 2
	lo := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	lo.mapW = max(10, lo.contentW-sw-1)
	lo.mapH = lo.contentH
	if m.showSidebar {
		lo.mapX = sw + 1
	}
	return lo
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileChangedMsg, watchErrMsg:
		return m, m.handleWatch(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				w := strings.TrimSpace(m.ta.Value())
				if w == "" {
					m.status = "paste: empty"
					return m, nil
				}
				d, err := geom.ParseWKTData(w)
				if err != nil {
					m.status = "wkt error: " + err.Error()
					return m, nil
				}
				m.selPath = ""
				m.showData(d)
				m.status = "rendered WKT  " + countsText(d)
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.status = fmt.Sprintf("points: %v", m.toggleLayer(render.LayerPoints))
		case "2":
			m.status = fmt.Sprintf("lines: %v", m.toggleLayer(render.LayerLines))
		case "3":
			m.status = fmt.Sprintf("polys: %v", m.toggleLayer(render.LayerPolygons))
		case "+", "=":
			m.zoomIn()
		case "-", "_":
			m.zoomOut()
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
			}
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			// inspect under the pointer, or at the map centre
			lo := m.layout()
			cx, cy := lo.mapW/2, lo.mapH/2
			if m.hovering {
				cx, cy = m.hoverCellX, m.hoverCellY
			}
			if e := m.hitAt(cx, cy); e != nil {
				m.inspectPopup = inspectText(e)
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no feature here"
				m.status = m.inspectPopup
			}
		case "esc":
			m.inspectPopup = ""
		case "l":
			// toggle all layers
			all := m.layerVisible(render.LayerPoints) && m.layerVisible(render.LayerLines) && m.layerVisible(render.LayerPolygons)
			for _, l := range m.display.Layers {
				l.Hidden = all
			}
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", !all, !all, !all)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
					if cmd := m.startWaiting(); cmd != nil {
						return m, cmd
					}
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		lo := m.layout()
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoomIn()
		case tea.MouseButtonWheelDown:
			m.zoomOut()
		}
		cx, cy := msg.X, msg.Y
		if cx >= lo.mapX && cx < lo.mapX+lo.mapW && cy >= lo.mapY && cy < lo.mapY+lo.mapH {
			m.hovering = true
			m.hoverCellX = cx - lo.mapX
			m.hoverCellY = cy - lo.mapY
			if lon, lat, ok := m.cellToLonLat(m.hoverCellX, m.hoverCellY, lo.mapW, lo.mapH); ok {
				m.hoverHasGeo = true
				m.hoverLon = lon
				m.hoverLat = lat
			} else {
				m.hoverHasGeo = false
			}
			// hit against the paths cached by the last draw
			m.hoverHit = m.hitAt(m.hoverCellX, m.hoverCellY)
		} else {
			m.hovering = false
			m.hoverHit = nil
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) zoomIn() {
	if m.zoom < 64 {
		m.zoom *= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
	}
}

func (m *Model) zoomOut() {
	if m.zoom > 0.05 {
		m.zoom /= 1.2
		m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
	}
}

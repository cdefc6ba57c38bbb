package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"geoportray/internal/geom"
)

type fileChangedMsg struct{ path string }

type watchErrMsg struct{ err error }

// watch points the watcher at the directory of p. Editors often replace a
// file instead of writing it, so the directory is watched, not the file.
func (m *Model) watch(p string) {
	if !m.watching {
		return
	}
	if m.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			m.log.WithError(err).Warn("watch disabled")
			m.watching = false
			return
		}
		m.watcher = w
	}
	dir := filepath.Dir(p)
	if m.watchDir == dir {
		return
	}
	if m.watchDir != "" {
		_ = m.watcher.Remove(m.watchDir)
	}
	if err := m.watcher.Add(dir); err != nil {
		m.log.WithFields(logrus.Fields{"dir": dir}).WithError(err).Warn("watch failed")
		return
	}
	m.watchDir = dir
}

// waitForChange blocks until a file in the watched directory is written.
// Only one wait runs at a time; Update starts the next one.
func (m Model) waitForChange() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					return fileChangedMsg{path: ev.Name}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

// startWaiting returns the first wait command once a watcher exists.
func (m *Model) startWaiting() tea.Cmd {
	if m.watcher == nil || m.waiting {
		return nil
	}
	m.waiting = true
	return m.waitForChange()
}

// handleWatch reacts to a watcher message and queues the next wait.
func (m *Model) handleWatch(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fileChangedMsg:
		if m.selPath != "" && filepath.Clean(msg.path) == filepath.Clean(m.selPath) {
			m.reload()
		}
	case watchErrMsg:
		m.log.WithError(msg.err).Warn("watch error")
	}
	return m.waitForChange()
}

// reload reads the selected file again, keeping zoom and pan.
func (m *Model) reload() {
	d, err := geom.Load(m.selPath)
	if err != nil {
		// a half-written file is common mid-save; keep what is shown
		m.log.WithFields(logrus.Fields{"path": m.selPath}).WithError(err).Debug("reload failed")
		return
	}
	m.setData(d)
	m.status = "reloaded: " + filepath.Base(m.selPath) + "  " + countsText(d)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// Close stops the file watcher, if any.
func (m Model) Close() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

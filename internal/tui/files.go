package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"go.uber.org/zap"

	"propmap/internal/bind"
	"propmap/internal/geom"
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
		if e.IsDir() || !geom.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a supported file and binds it with the current fields,
// falling back to the first numeric fields of the file.
func (m *Model) loadPath(p string) {
	coll, err := geom.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		zap.L().Warn("load failed", zap.String("path", p), zap.Error(err))
		return
	}
	m.selPath = p
	m.coll = coll
	m.data = coll.Data()
	m.fields = bind.Fields(coll)
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	if !contains(m.fields, m.sizeField) {
		m.sizeField = ""
		if len(m.fields) > 0 {
			m.sizeField = m.fields[0]
		}
	}
	if !contains(m.fields, m.colorFld) {
		m.colorFld = m.sizeField
		if len(m.fields) > 1 {
			m.colorFld = m.fields[1]
		}
	}
	m.rebind()
	if m.rendering != nil {
		m.status = fmt.Sprintf("loaded: %s  features=%d symbols=%d", filepath.Base(p), len(coll.Features), len(m.records))
	}
	// If attributes are currently shown, verify availability for the new dataset
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func contains(xs []string, s string) bool {
	if s == "" {
		return false
	}
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

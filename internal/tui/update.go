package tui

import (
	"fmt"
	"math"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"propmap/internal/classify"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			m.sizeField = cycle(m.fields, m.sizeField, 1)
			m.rebind()
		case "c":
			m.colorFld = cycle(m.fields, m.colorFld, 1)
			m.rebind()
		case "k":
			m.kind = propsym.Kind((int(m.kind) + 1) % len(propsym.Kinds))
			m.rebind()
		case "m":
			m.method = cycle(classify.Methods, m.methodName(), 1)
			m.rebind()
		case "L":
			m.showLegends = !m.showLegends
			m.status = fmt.Sprintf("legends: %v", m.showLegends)
		case "b":
			m.showBase = !m.showBase
			m.status = fmt.Sprintf("basemap: %v", m.showBase)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-1-2)
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			if m.inspectPopup != "" {
				m.inspectPopup = ""
				break
			}
			_, _, w, h := m.layout()
			f := m.frame(w, h)
			centre := surface.Point{X: float64(w), Y: float64(h * 2)}
			if s, ok := m.nearestSymbol(f, centre, math.Inf(1)); ok {
				m.inspectPopup = strings.Join(describe(s, m.sizeField, m.colorFld), "\n")
				m.status = "inspect " + s.ID
			} else {
				m.status = "no symbol to inspect"
			}
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
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
		x0, y0, w, h := m.layout()
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, h-2)
		}
		cx, cy := msg.X-x0, msg.Y-y0
		if cx >= 0 && cx < w && cy >= 0 && cy < h && m.coll.BBox.Valid() {
			f := m.frame(w, h)
			pt := surface.Point{X: float64(cx*2 + 1), Y: float64(cy*4 + 2)}
			ll := f.Unproject(pt)
			m.hoverHasGeo = true
			m.hoverLon, m.hoverLat = ll[0], ll[1]
			m.hoverSymbol = ""
			if s, ok := m.nearestSymbol(f, pt, 2); ok {
				m.hoverSymbol = s.ID
			}
		} else {
			m.hoverHasGeo = false
			m.hoverSymbol = ""
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

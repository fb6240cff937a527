package tui

import (
	"fmt"
	"math"
	"strings"

	"propmap/internal/bind"
	"propmap/internal/legend"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout returns the map viewport origin and size in cells. It must match
// what View draws.
func (m Model) layout() (x0, y0, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = contentWidth
	if m.showSidebar {
		w -= sidebarWidth + 1
		x0 = sidebarWidth + 1
	}
	return x0, headerHeight, max(10, w), contentHeight
}

// frame fits the dataset into a w×h cell map with the current zoom and pan.
func (m Model) frame(w, h int) *surface.Frame {
	margin := m.settings.Options.Margin * m.settings.TermDPI
	f := surface.Fit(m.coll.BBox, float64(w*2), float64(h*4), margin)
	return f.View(m.zoom, float64(m.offsetX*2), float64(m.offsetY*4))
}

// options is the layer configuration after the viewer's overrides.
func (m Model) options() propsym.Options {
	o := m.settings.Options
	o.Kind = m.kind
	o.Classification.Method = m.method
	if m.method != "fixed" {
		o.Classification.Breaks = nil
	}
	if t := o.SizeLegend.Title; t == "" || t == m.settings.Bind.SizeField {
		o.SizeLegend.Title = m.sizeField
	}
	if t := o.ColorLegend.Title; t == "" || t == m.settings.Bind.ColorField {
		o.ColorLegend.Title = m.colorFld
	}
	if !m.showLegends {
		o.SizeLegend = legend.Style{Position: "none"}
		o.ColorLegend = legend.Style{Position: "none"}
	}
	return o
}

// rebind binds the current fields and resolves the layer. Failures leave
// the map without symbols and show up in the status line.
func (m *Model) rebind() {
	m.records, m.rendering = nil, nil
	if m.sizeField == "" {
		m.status = "no numeric fields in dataset"
		return
	}
	spec := m.settings.Bind
	spec.SizeField, spec.ColorField = m.sizeField, m.colorFld
	recs, err := bind.Bind(m.coll, spec)
	if err != nil {
		m.status = "bind error: " + err.Error()
		return
	}
	r, err := propsym.Layer{Options: m.options()}.Resolve(recs)
	if err != nil {
		m.status = "layer error: " + err.Error()
		return
	}
	m.records, m.rendering = recs, r
	m.status = fmt.Sprintf("size=%s color=%s kind=%s method=%s", m.sizeField, m.colorFld, m.kind, m.methodName())
}

func (m Model) methodName() string {
	if m.method == "" {
		return "quantile"
	}
	return m.method
}

func (m Model) renderMap(w, h int) string {
	if !m.coll.BBox.Valid() {
		return strings.Repeat("\n", max(0, h-1))
	}
	t := surface.NewTerm(w, h, m.settings.TermDPI)
	t.SetFrame(m.frame(w, h))
	if m.showBase {
		if err := surface.Outline(t, m.data, m.settings.Base, m.settings.Base); err != nil {
			return "render error: " + err.Error()
		}
	}
	if m.rendering != nil {
		if err := m.rendering.Draw(t, m.options()); err != nil {
			return "render error: " + err.Error()
		}
	}
	return t.String()
}

// nearestSymbol finds the drawn symbol closest to pt (micro-grid units)
// within reach micro pixels of its outline.
func (m Model) nearestSymbol(f *surface.Frame, pt surface.Point, reach float64) (propsym.Symbol, bool) {
	if m.rendering == nil {
		return propsym.Symbol{}, false
	}
	best, found := math.Inf(1), false
	var out propsym.Symbol
	for _, s := range m.rendering.Symbols {
		if s.Reference || s.Size <= 0 {
			continue
		}
		p := f.Project(s.Position)
		r := s.Size * m.settings.TermDPI
		if m.rendering.Kind != propsym.Circle {
			r /= 2
		}
		d := math.Hypot(p.X-pt.X, p.Y-pt.Y) - r
		if d < best && d <= reach {
			best, out, found = d, s, true
		}
	}
	return out, found
}

func describe(s propsym.Symbol, sizeField, colorField string) []string {
	cv := "NA"
	if !math.IsNaN(s.ColorValue) {
		cv = legend.Label(s.ColorValue, 3)
	}
	class := "NA"
	if s.Class >= 0 {
		class = fmt.Sprint(s.Class + 1)
	}
	return []string{
		fmt.Sprintf("id: %s", s.ID),
		fmt.Sprintf("position: %.5f, %.5f", s.Position[0], s.Position[1]),
		fmt.Sprintf("%s: %s", sizeField, legend.Label(s.Value, 3)),
		fmt.Sprintf("%s: %s", colorField, cv),
		fmt.Sprintf("class: %s  fill: %s", class, surface.Hex(s.Fill)),
		fmt.Sprintf("size: %.3f in", s.Size),
	}
}

func cycle(xs []string, cur string, step int) string {
	if len(xs) == 0 {
		return cur
	}
	i := 0
	for j, x := range xs {
		if x == cur {
			i = (j + step + len(xs)) % len(xs)
			return xs[i]
		}
	}
	return xs[i]
}

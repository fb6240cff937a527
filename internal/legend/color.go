package legend

import (
	"image/color"
	"math"

	"propmap/internal/surface"
)

// ColorInput is what the colour legend depicts: one box per class, break
// labels at the box edges and an optional no-data box.
type ColorInput struct {
	Breaks      []float64
	Palette     []color.Color
	NoData      bool
	NoDataColor color.Color
	Border      color.Color
	BorderWidth float64 // device units
}

type colorLayout struct {
	w, h   float64
	labels []string
	labelW float64
	labelH float64
	naW    float64
}

func (m metrics) colorLayout(in ColorInput) colorLayout {
	var l colorLayout
	for _, v := range in.Breaks {
		s, w, h := m.label(v)
		l.labels = append(l.labels, s)
		l.labelW = math.Max(l.labelW, w)
		l.labelH = math.Max(l.labelH, h)
	}
	if in.NoData {
		l.naW, _ = m.s.TextSize(m.style.NoDataLabel, m.style.ValueSize)
	}
	n := float64(len(in.Palette))
	tw, th := m.title()
	var bw, bh float64
	if m.style.Horizontal {
		bw = n*m.in(boxWH) + l.labelW
		if in.NoData {
			bw += m.in(labelGap) + math.Max(m.in(boxWH), l.naW)
		}
		bh = m.in(boxH) + m.in(lineGap) + l.labelH
	} else {
		bw = m.in(boxW) + m.in(lineGap) + math.Max(l.labelW, l.naW)
		bh = n*m.in(boxH) + l.labelH
		if in.NoData {
			bh += m.in(labelGap) + m.in(boxH)
		}
	}
	l.w = math.Max(tw, bw) + 2*m.in(pad)
	l.h = th + bh + 2*m.in(pad)
	return l
}

// DrawColor places and draws a colour legend.
func DrawColor(s surface.Surface, st Style, in ColorInput, occupied []surface.Point, taken []Box) (Box, error) {
	if st.Hidden() || len(in.Palette) == 0 {
		return Box{}, nil
	}
	m := newMetrics(s, st)
	l := m.colorLayout(in)
	b, err := Place(s, st.Position, l.w, l.h, occupied, taken)
	if err != nil || b.Empty() {
		return b, err
	}
	top, err := m.frame(b)
	if err != nil {
		return b, err
	}
	left := b.X + m.in(pad)
	box := func(x, y, w, h float64, c color.Color) error {
		return s.Rect(x, y, w, h, surface.Style{Fill: c, Stroke: in.Border, StrokeWidth: in.BorderWidth})
	}
	n := len(in.Palette)
	vs := m.style.ValueSize

	if m.style.Horizontal {
		x0 := left + l.labelW/2
		bw, bh := m.in(boxWH), m.in(boxH)
		ly := top + bh + m.in(lineGap)
		for i, c := range in.Palette {
			if err := box(x0+float64(i)*bw, top, bw, bh, c); err != nil {
				return b, err
			}
		}
		for i, lab := range l.labels {
			if err := m.text(x0+float64(i)*bw, ly, lab, vs, 0.5, 0); err != nil {
				return b, err
			}
		}
		if in.NoData {
			nx := x0 + float64(n)*bw + l.labelW/2 + m.in(labelGap)
			if err := box(nx, top, bw, bh, in.NoDataColor); err != nil {
				return b, err
			}
			if err := m.text(nx+bw/2, ly, m.style.NoDataLabel, vs, 0.5, 0); err != nil {
				return b, err
			}
		}
		return b, nil
	}

	// vertical: highest class on top
	y0 := top + l.labelH/2
	bw, bh := m.in(boxW), m.in(boxH)
	lx := left + bw + m.in(lineGap)
	for i, c := range in.Palette {
		if err := box(left, y0+float64(n-1-i)*bh, bw, bh, c); err != nil {
			return b, err
		}
	}
	for i, lab := range l.labels {
		if err := m.text(lx, y0+float64(n-i)*bh, lab, vs, 0, 0.5); err != nil {
			return b, err
		}
	}
	if in.NoData {
		ny := y0 + float64(n)*bh + l.labelH/2 + m.in(labelGap)
		if err := box(left, ny, bw, bh, in.NoDataColor); err != nil {
			return b, err
		}
		if err := m.text(lx, ny+bh/2, m.style.NoDataLabel, vs, 0, 0.5); err != nil {
			return b, err
		}
	}
	return b, nil
}

package legend

import (
	"image/color"
	"math"

	"propmap/internal/surface"
)

// SizeInput is what the size legend depicts.
type SizeInput struct {
	Shape Shape
	// Ticks run from the largest value down.
	Ticks []Tick
	// Inches is the size of the largest symbol; bars are Inches/7 wide.
	Inches      float64
	Border      color.Color
	BorderWidth float64 // device units
}

type sizeLayout struct {
	w, h    float64
	labels  []string
	labelW  float64
	labelH  float64
	extent  float64 // largest symbol extent in device units
	barW    float64
	columnW float64
}

func (m metrics) sizeLayout(in SizeInput) sizeLayout {
	var l sizeLayout
	for _, t := range in.Ticks {
		s, w, h := m.label(t.Value)
		l.labels = append(l.labels, s)
		l.labelW = math.Max(l.labelW, w)
		l.labelH = math.Max(l.labelH, h)
		l.extent = math.Max(l.extent, m.in(t.Size))
	}
	tw, th := m.title()
	var bw, bh float64
	switch in.Shape {
	case Circles:
		bw = 2*l.extent + m.in(labelGap) + l.labelW
		bh = 2*l.extent + l.labelH/2
	case Squares:
		bw = l.extent + m.in(labelGap) + l.labelW
		bh = l.extent + l.labelH/2
	case Bars:
		l.barW = m.in(in.Inches / 7)
		l.columnW = math.Max(l.barW, l.labelW) + m.in(lineGap)
		bw = float64(len(in.Ticks)) * l.columnW
		bh = l.extent + l.labelH
	}
	l.w = math.Max(tw, bw) + 2*m.in(pad)
	l.h = th + bh + 2*m.in(pad)
	return l
}

// DrawSize places and draws a size legend. occupied and taken guide
// automatic placement; the drawn box is returned.
func DrawSize(s surface.Surface, st Style, in SizeInput, occupied []surface.Point, taken []Box) (Box, error) {
	if st.Hidden() || len(in.Ticks) == 0 {
		return Box{}, nil
	}
	m := newMetrics(s, st)
	l := m.sizeLayout(in)
	b, err := Place(s, st.Position, l.w, l.h, occupied, taken)
	if err != nil || b.Empty() {
		return b, err
	}
	top, err := m.frame(b)
	if err != nil {
		return b, err
	}
	left := b.X + m.in(pad)
	sym := surface.Style{Fill: m.style.SymbolFill, Stroke: in.Border, StrokeWidth: in.BorderWidth}
	leader := surface.Style{Stroke: m.style.TextColor, StrokeWidth: 0.5 * m.dpi / 72}

	switch in.Shape {
	case Circles, Squares:
		base := top + l.labelH/2 + l.extent
		if in.Shape == Circles {
			base += l.extent
		}
		labelX := left + l.extent + m.in(labelGap)
		if in.Shape == Circles {
			labelX += l.extent
		}
		for i, t := range in.Ticks {
			sz := m.in(t.Size)
			var y, x float64
			if in.Shape == Circles {
				y, x = base-2*sz, left+l.extent
				err = s.Circle(surface.Point{X: left + l.extent, Y: base - sz}, sz, sym)
			} else {
				y, x = base-sz, left+sz
				err = s.Rect(left, base-sz, sz, sz, sym)
			}
			if err != nil {
				return b, err
			}
			pts := []surface.Point{{X: x, Y: y}, {X: labelX - m.in(lineGap), Y: y}}
			if err := s.Polyline(pts, false, leader); err != nil {
				return b, err
			}
			if err := m.text(labelX, y, l.labels[i], m.style.ValueSize, 0, 0.5); err != nil {
				return b, err
			}
		}
	case Bars:
		base := top + l.labelH + l.extent
		for i, t := range in.Ticks {
			h := m.in(t.Size)
			cx := left + float64(i)*l.columnW + l.columnW/2
			if err := s.Rect(cx-l.barW/2, base-h, l.barW, h, sym); err != nil {
				return b, err
			}
			if err := m.text(cx, base-h, l.labels[i], m.style.ValueSize, 0.5, 1); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

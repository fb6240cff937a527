// Package legend draws the size and colour legends of a proportional
// symbol layer with the primitives of a surface.
package legend

import (
	"image/color"

	"propmap/internal/surface"
)

// Style configures one legend.
type Style struct {
	// Position is a named anchor (see Positions), "x,y" as fractions of
	// the surface, "auto" or "none".
	Position  string
	Title     string
	TitleSize float64 // points
	ValueSize float64 // points
	// Round is the number of decimals of value labels; negative rounds to
	// tens, hundreds and so on.
	Round       int
	Frame       bool
	Horizontal  bool
	NoDataLabel string
	TextColor   color.Color
	Background  color.Color
	// SymbolFill paints size legend symbols.
	SymbolFill color.Color
}

func (s Style) withDefaults() Style {
	if s.TitleSize <= 0 {
		s.TitleSize = 10
	}
	if s.ValueSize <= 0 {
		s.ValueSize = 8
	}
	if s.TextColor == nil {
		s.TextColor = color.Black
	}
	if s.Background == nil {
		s.Background = color.White
	}
	return s
}

// Hidden reports whether the legend is switched off.
func (s Style) Hidden() bool { return s.Position == "none" }

// Shape is how size legend symbols are laid out.
type Shape int

const (
	Circles Shape = iota // nested, bottom aligned
	Squares              // nested, bottom-left aligned
	Bars                 // side by side
)

// Tick is one size legend entry. Size is in inches.
type Tick struct {
	Value float64 `json:"value" yaml:"value"`
	Size  float64 `json:"size" yaml:"size"`
}

// layout constants, in inches
const (
	pad      = 0.06
	titleGap = 0.05
	lineGap  = 0.05
	labelGap = 0.1
	boxW     = 0.25
	boxWH    = 0.5 // box width of a horizontal colour legend
	boxH     = 0.18
)

type metrics struct {
	s     surface.Surface
	dpi   float64
	style Style
}

func newMetrics(s surface.Surface, st Style) metrics {
	return metrics{s: s, dpi: s.DPI(), style: st.withDefaults()}
}

func (m metrics) in(v float64) float64 { return v * m.dpi }

func (m metrics) title() (float64, float64) {
	if m.style.Title == "" {
		return 0, 0
	}
	w, h := m.s.TextSize(m.style.Title, m.style.TitleSize)
	return w, h + m.in(titleGap)
}

func (m metrics) label(v float64) (string, float64, float64) {
	l := Label(v, m.style.Round)
	w, h := m.s.TextSize(l, m.style.ValueSize)
	return l, w, h
}

func (m metrics) text(x, y float64, s string, size, ax, ay float64) error {
	return m.s.Text(surface.Point{X: x, Y: y}, s, surface.TextStyle{
		Size: size, Color: m.style.TextColor, AX: ax, AY: ay,
	})
}

// frame draws the optional background box and the title, returning the top
// of the legend body.
func (m metrics) frame(b Box) (float64, error) {
	if m.style.Frame {
		err := m.s.Rect(b.X, b.Y, b.W, b.H, surface.Style{
			Fill: m.style.Background, Stroke: m.style.TextColor, StrokeWidth: 0.5 * m.dpi / 72,
		})
		if err != nil {
			return 0, err
		}
	}
	y := b.Y + m.in(pad)
	if m.style.Title != "" {
		if err := m.text(b.X+m.in(pad), y, m.style.Title, m.style.TitleSize, 0, 0); err != nil {
			return 0, err
		}
		_, th := m.title()
		y += th
	}
	return y, nil
}

package propsym

import (
	"image/color"

	"propmap/internal/bind"
	"propmap/internal/classify"
	"propmap/internal/surface"
)

// Symbol is one resolved map symbol. Size is in inches.
type Symbol struct {
	ID         string      `json:"id" yaml:"id"`
	Position   [2]float64  `json:"position" yaml:"position"`
	Value      float64     `json:"value" yaml:"value"`
	ColorValue float64     `json:"color_value" yaml:"color_value"`
	Size       float64     `json:"size" yaml:"size"`
	Class      int         `json:"class" yaml:"class"`
	Fill       color.Color `json:"-" yaml:"-"`
	Reference  bool        `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Symbols lists what is drawn, in drawing order: the reference symbol when
// there is one, then the records as given.
func Symbols(records []bind.Record, sz Sizes, res *classify.Result, noData color.Color) []Symbol {
	out := make([]Symbol, 0, len(records)+1)
	if ref := sz.Reference; ref != nil {
		out = append(out, Symbol{
			Position:   ref.Position,
			Value:      ref.Value,
			ColorValue: nan,
			Size:       ref.Size,
			Class:      -1,
			Reference:  true,
		})
	}
	for i, r := range records {
		s := Symbol{
			ID:         r.ID,
			Position:   r.Position,
			Value:      r.Size,
			ColorValue: r.Color,
			Size:       sz.PerRecord[i],
			Class:      -1,
			Fill:       noData,
		}
		if res != nil && res.Colors[i] != nil {
			s.Fill = res.Colors[i]
			s.Class = res.Classes[i]
		}
		out = append(out, s)
	}
	return out
}

// style is how sym is painted. The reference symbol is never painted.
func (sym Symbol) style(border color.Color, width float64) surface.Style {
	if sym.Reference {
		return surface.Style{}
	}
	return surface.Style{Fill: sym.Fill, Stroke: border, StrokeWidth: width}
}

func drawSymbols(s surface.Surface, syms []Symbol, sh shape, inches float64, border color.Color, width float64) error {
	f := s.Frame()
	for _, sym := range syms {
		if !(sym.Size > 0) {
			continue
		}
		at := f.Project(sym.Position)
		if err := sh.emit(s, at, sym.Size, inches, sym.style(border, width)); err != nil {
			return err
		}
	}
	return nil
}

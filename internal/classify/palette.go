package classify

import (
	"image/color"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
)

// Palettes holds the named ramps, light (low values) to dark (high values)
// for the sequential ones.
var Palettes = map[string][]string{
	"Mint":    {"#E4F1E1", "#B4D9CC", "#89C0B6", "#63A6A0", "#448C8A", "#287274", "#0D585F"},
	"Teal":    {"#D1EEEA", "#A8DBD9", "#85C4C9", "#68ABB8", "#4F90A6", "#3B738F", "#2A5674"},
	"Magenta": {"#F3CBD3", "#EAA9BD", "#DD88AC", "#CA699D", "#B14D8E", "#91357D", "#6C2167"},
	"Blues":   {"#F7FBFF", "#DEEBF7", "#C6DBEF", "#9ECAE1", "#6BAED6", "#4292C6", "#2171B5", "#08519C", "#08306B"},
	"Reds":    {"#FFF5F0", "#FEE0D2", "#FCBBA1", "#FC9272", "#FB6A4A", "#EF3B2C", "#CB181D", "#A50F15", "#67000D"},
	"Greens":  {"#F7FCF5", "#E5F5E0", "#C7E9C0", "#A1D99B", "#74C476", "#41AB5D", "#238B45", "#006D2C", "#00441B"},
	"Purples": {"#FCFBFD", "#EFEDF5", "#DADAEB", "#BCBDDC", "#9E9AC8", "#807DBA", "#6A51A3", "#54278F", "#3F007D"},
	"Oranges": {"#FFF5EB", "#FEE6CE", "#FDD0A2", "#FDAE6B", "#FD8D3C", "#F16913", "#D94801", "#A63603", "#7F2704"},
	"YlOrRd":  {"#FFFFCC", "#FFEDA0", "#FED976", "#FEB24C", "#FD8D3C", "#FC4E2A", "#E31A1C", "#BD0026", "#800026"},
	"Viridis": {"#FDE725", "#B4DE2C", "#6DCD59", "#35B779", "#1F9E89", "#26828E", "#31688E", "#3E4A89", "#482878", "#440154"},
	"RdBu":    {"#053061", "#2166AC", "#4393C3", "#92C5DE", "#D1E5F0", "#F7F7F7", "#FDDBC7", "#F4A582", "#D6604D", "#B2182B", "#67001F"},
}

// PaletteNames returns the ramp names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ramp samples n evenly spaced colours from the named ramp.
func Ramp(name string, n int, alpha float64, rev bool) ([]color.Color, error) {
	if name == "" {
		name = "Mint"
	}
	stops, ok := lookup(name)
	if !ok {
		return nil, eris.Wrapf(ErrPaletteMismatch, "classify: unknown palette %q", name)
	}
	if n < 1 {
		return nil, eris.Wrapf(ErrClassification, "classify: %d classes", n)
	}
	grad := palette.RGBGradient{Colors: make([]color.RGBA, len(stops))}
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, eris.Wrapf(err, "classify: palette %s", name)
		}
		r, g, b := c.RGB255()
		grad.Colors[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	out := make([]color.Color, n)
	for i := range out {
		x := 0.5
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		r, g, b, _ := grad.Map(x).RGBA()
		out[i] = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha*255 + 0.5)}
	}
	if rev {
		reverse(out)
	}
	return out, nil
}

func lookup(name string) ([]string, bool) {
	if s, ok := Palettes[name]; ok {
		return s, true
	}
	for k, s := range Palettes {
		if strings.EqualFold(k, name) {
			return s, true
		}
	}
	return nil, false
}

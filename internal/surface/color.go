package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
)

// ErrColor reports a colour string that cannot be parsed.
var ErrColor = eris.New("surface: invalid color")

var named = map[string]string{
	"white":     "#FFFFFF",
	"black":     "#000000",
	"grey":      "#BEBEBE",
	"gray":      "#BEBEBE",
	"lightgrey": "#D3D3D3",
	"darkgrey":  "#A9A9A9",
	"red":       "#FF0000",
	"green":     "#00FF00",
	"blue":      "#0000FF",
	"yellow":    "#FFFF00",
	"orange":    "#FFA500",
	"purple":    "#A020F0",
	"brown":     "#A52A2A",
	"pink":      "#FFC0CB",
	"cyan":      "#00FFFF",
	"magenta":   "#FF00FF",
	"ivory":     "#FFFFF0",
	"beige":     "#F5F5DC",
	"navy":      "#000080",
	"teal":      "#008080",
}

// ParseColor accepts "#RGB", "#RRGGBB", "#RRGGBBAA", a colour name, or one
// of "none", "transparent", "NA" and the empty string, which give nil.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "transparent", "na":
		return nil, nil
	}
	if hex, ok := named[strings.ToLower(s)]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return nil, eris.Wrapf(ErrColor, "surface: color %q", s)
	}
	hex := s[1:]
	alpha := uint8(0xff)
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return nil, eris.Wrapf(ErrColor, "surface: color %q", s)
		}
		alpha = uint8(a)
		hex = hex[:6]
	case 6:
	default:
		return nil, eris.Wrapf(ErrColor, "surface: color %q", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return nil, eris.Wrapf(ErrColor, "surface: color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #RRGGBB, or "none" for nil.
func Hex(c color.Color) string {
	if c == nil {
		return "none"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}

// Opacity returns the alpha of c in [0, 1]; 0 for nil.
func Opacity(c color.Color) float64 {
	if c == nil {
		return 0
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float64(n.A) / 255
}

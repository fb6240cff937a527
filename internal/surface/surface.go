// Package surface holds the drawing targets a layer is rendered onto and
// the primitives symbols and legends are built from.
package surface

import (
	"image/color"
)

// Point is a position in device units, origin top-left, y down.
type Point struct {
	X, Y float64
}

// Style describes how a closed shape is painted. A nil colour is absent.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Visible reports whether painting with s changes any pixel.
func (s Style) Visible() bool {
	return (s.Fill != nil && Opacity(s.Fill) > 0) ||
		(s.Stroke != nil && s.StrokeWidth > 0 && Opacity(s.Stroke) > 0)
}

func (s Style) stroked() bool {
	return s.Stroke != nil && s.StrokeWidth > 0
}

// TextStyle places a label. AX and AY anchor the text box: (0, 0) puts the
// top-left corner at the point, (0.5, 0.5) centres it.
type TextStyle struct {
	Size   float64 // points
	Color  color.Color
	AX, AY float64
}

// Surface is a drawing target measured in device units.
type Surface interface {
	// Size is the drawable extent in device units.
	Size() (w, h float64)
	// DPI is the number of device units per inch.
	DPI() float64
	// Frame is the current map projection, nil until set.
	Frame() *Frame
	SetFrame(f *Frame)

	Circle(c Point, r float64, st Style) error
	Rect(x, y, w, h float64, st Style) error
	Polyline(pts []Point, closed bool, st Style) error
	Text(p Point, s string, ts TextStyle) error
	// TextSize measures s at size points in device units.
	TextSize(s string, size float64) (w, h float64)
}

// PointsToDevice converts a font size to device units.
func PointsToDevice(s Surface, pt float64) float64 {
	return pt * s.DPI() / 72
}

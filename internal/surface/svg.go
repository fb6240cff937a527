package surface

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/rotisserie/eris"
)

// SVG is a vector surface. Device units are CSS pixels; paths keep
// fractional coordinates.
type SVG struct {
	buf    bytes.Buffer
	canvas *svg.SVG
	w, h   int
	dpi    float64
	frame  *Frame
	ended  bool
}

// NewSVG starts a w×h document filled with bg (left transparent when nil).
func NewSVG(w, h int, dpi float64, bg color.Color) *SVG {
	if dpi <= 0 {
		dpi = 96
	}
	s := &SVG{w: w, h: h, dpi: dpi}
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(w, h, `font-family="Go,Helvetica,Arial,sans-serif"`)
	if bg != nil {
		s.canvas.Rect(0, 0, w, h, cssPaint("fill", bg))
	}
	return s
}

func (s *SVG) Size() (float64, float64) { return float64(s.w), float64(s.h) }
func (s *SVG) DPI() float64             { return s.dpi }
func (s *SVG) Frame() *Frame            { return s.frame }
func (s *SVG) SetFrame(f *Frame)        { s.frame = f }

func (s *SVG) Circle(c Point, r float64, st Style) error {
	if r <= 0 || !st.Visible() {
		return nil
	}
	// two arcs keep the radius fractional, svgo's Circle takes ints
	var p []byte
	p = append(p, 'M')
	p = appendXY(p, c.X-r, c.Y)
	p = fmt.Appendf(p, "a%.6g %.6g 0 1 0 %.6g 0", r, r, 2*r)
	p = fmt.Appendf(p, "a%.6g %.6g 0 1 0 %.6g 0Z", r, r, -2*r)
	s.canvas.Path(string(p), cssStyle(st))
	return nil
}

func (s *SVG) Rect(x, y, w, h float64, st Style) error {
	if w <= 0 || h <= 0 || !st.Visible() {
		return nil
	}
	var p []byte
	p = append(p, 'M')
	p = appendXY(p, x, y)
	p = fmt.Appendf(p, "h%.6gv%.6gh%.6gZ", w, h, -w)
	s.canvas.Path(string(p), cssStyle(st))
	return nil
}

func (s *SVG) Polyline(pts []Point, closed bool, st Style) error {
	if len(pts) < 2 || !st.Visible() {
		return nil
	}
	var p []byte
	for i, pt := range pts {
		if i == 0 {
			p = append(p, 'M')
		} else {
			p = append(p, 'L')
		}
		p = appendXY(p, pt.X, pt.Y)
	}
	if closed {
		p = append(p, 'Z')
	} else {
		st.Fill = nil
	}
	s.canvas.Path(string(p), cssStyle(st))
	return nil
}

func (s *SVG) Text(pt Point, str string, ts TextStyle) error {
	if str == "" {
		return nil
	}
	anchor := "start"
	switch {
	case ts.AX >= 0.75:
		anchor = "end"
	case ts.AX >= 0.25:
		anchor = "middle"
	}
	px := ts.Size * s.dpi / 72
	_, h := approxText(str, px)
	// baseline sits one line below the top of the box
	y := pt.Y + h*(1-ts.AY) - 0.25*px
	c := ts.Color
	if c == nil {
		c = color.Black
	}
	s.canvas.Text(int(pt.X+0.5), int(y+0.5), str,
		fmt.Sprintf(`font-size="%.6gpx"`, px),
		fmt.Sprintf(`text-anchor="%s"`, anchor),
		fmt.Sprintf(`fill="%s"`, Hex(c)))
	return nil
}

func (s *SVG) TextSize(str string, size float64) (float64, float64) {
	return approxText(str, size*s.dpi/72)
}

// Encode closes the document and writes it to w. The surface accepts no
// drawing afterwards.
func (s *SVG) Encode(w io.Writer) error {
	if !s.ended {
		s.canvas.End()
		s.ended = true
	}
	if _, err := w.Write(s.buf.Bytes()); err != nil {
		return eris.Wrap(err, "surface: write svg")
	}
	return nil
}

func appendXY(p []byte, x, y float64) []byte {
	p = strconv.AppendFloat(p, x, 'g', 6, 64)
	p = append(p, ' ')
	return strconv.AppendFloat(p, y, 'g', 6, 64)
}

func cssPaint(prop string, c color.Color) string {
	if c == nil {
		return prop + ":none"
	}
	str := prop + ":" + Hex(c)
	if a := Opacity(c); a < 1 {
		str += fmt.Sprintf(";%s-opacity:%.3g", prop, a)
	}
	return str
}

func cssStyle(st Style) string {
	str := cssPaint("fill", st.Fill)
	if st.stroked() {
		return str + ";" + cssPaint("stroke", st.Stroke) + fmt.Sprintf(";stroke-width:%.6g", st.StrokeWidth)
	}
	return str + ";stroke:none"
}

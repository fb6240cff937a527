package surface

import (
	"fmt"
	"strings"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   string  `json:"kind" yaml:"kind"` // circle, rect, polyline or text
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	W      float64 `json:"w,omitempty" yaml:"w,omitempty"`
	H      float64 `json:"h,omitempty" yaml:"h,omitempty"`
	R      float64 `json:"r,omitempty" yaml:"r,omitempty"`
	Points []Point `json:"points,omitempty" yaml:"points,omitempty"`
	Closed bool    `json:"closed,omitempty" yaml:"closed,omitempty"`
	Text   string  `json:"text,omitempty" yaml:"text,omitempty"`
	Fill   string  `json:"fill" yaml:"fill"`
	Stroke string  `json:"stroke" yaml:"stroke"`
	Width  float64 `json:"lwd,omitempty" yaml:"lwd,omitempty"`
}

// Recorder keeps every call instead of drawing. Invisible shapes are
// recorded too, so callers can see what was emitted.
type Recorder struct {
	W, H  float64
	Dots  float64
	Ops   []Op
	frame *Frame
	// Fail, when set, is returned by every primitive.
	Fail error
}

// NewRecorder returns a recorder with the given device size and DPI.
func NewRecorder(w, h, dpi float64) *Recorder {
	return &Recorder{W: w, H: h, Dots: dpi}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }
func (r *Recorder) DPI() float64             { return r.Dots }
func (r *Recorder) Frame() *Frame            { return r.frame }
func (r *Recorder) SetFrame(f *Frame)        { r.frame = f }

func (r *Recorder) add(op Op, st Style) error {
	if r.Fail != nil {
		return r.Fail
	}
	op.Fill, op.Stroke, op.Width = Hex(st.Fill), Hex(st.Stroke), st.StrokeWidth
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Recorder) Circle(c Point, rad float64, st Style) error {
	return r.add(Op{Kind: "circle", X: c.X, Y: c.Y, R: rad}, st)
}

func (r *Recorder) Rect(x, y, w, h float64, st Style) error {
	return r.add(Op{Kind: "rect", X: x, Y: y, W: w, H: h}, st)
}

func (r *Recorder) Polyline(pts []Point, closed bool, st Style) error {
	cp := append([]Point(nil), pts...)
	return r.add(Op{Kind: "polyline", Points: cp, Closed: closed}, st)
}

func (r *Recorder) Text(p Point, s string, ts TextStyle) error {
	return r.add(Op{Kind: "text", X: p.X, Y: p.Y, Text: s}, Style{Fill: ts.Color})
}

func (r *Recorder) TextSize(s string, size float64) (float64, float64) {
	return approxText(s, size*r.Dots/72)
}

// Kinds returns the ops of one kind in call order.
func (r *Recorder) Kinds(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// String lists the ops one per line.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, op := range r.Ops {
		switch op.Kind {
		case "circle":
			fmt.Fprintf(&sb, "circle %.4g,%.4g r=%.4g", op.X, op.Y, op.R)
		case "rect":
			fmt.Fprintf(&sb, "rect %.4g,%.4g %.4gx%.4g", op.X, op.Y, op.W, op.H)
		case "polyline":
			fmt.Fprintf(&sb, "polyline n=%d closed=%t", len(op.Points), op.Closed)
		case "text":
			fmt.Fprintf(&sb, "text %.4g,%.4g %q", op.X, op.Y, op.Text)
		}
		fmt.Fprintf(&sb, " fill=%s stroke=%s lwd=%.3g\n", op.Fill, op.Stroke, op.Width)
	}
	return sb.String()
}

package surface

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Term draws onto a braille micro-grid: every terminal cell is 2×4 device
// units. Labels occupy whole cells and cover the dots beneath them.
type Term struct {
	buf   *brailleBuf
	label [][]rune
	lfg   [][]color.Color
	dpi   float64
	frame *Frame
}

// NewTerm returns a surface of cols×rows cells. dpi is dots per inch on
// the micro-grid.
func NewTerm(cols, rows int, dpi float64) *Term {
	if dpi <= 0 {
		dpi = 16
	}
	t := &Term{buf: newBrailleBuf(cols, rows), dpi: dpi}
	t.label = make([][]rune, rows)
	t.lfg = make([][]color.Color, rows)
	for i := range t.label {
		t.label[i] = make([]rune, cols)
		t.lfg[i] = make([]color.Color, cols)
	}
	return t
}

func (t *Term) Size() (float64, float64) {
	return float64(t.buf.w * 2), float64(t.buf.h * 4)
}

func (t *Term) DPI() float64      { return t.dpi }
func (t *Term) Frame() *Frame     { return t.frame }
func (t *Term) SetFrame(f *Frame) { t.frame = f }

// paintColor is the colour a cell takes for a shape: the border when one
// is drawn, else the fill.
func paintColor(st Style) color.Color {
	if st.stroked() {
		return st.Stroke
	}
	return st.Fill
}

func (t *Term) Circle(c Point, r float64, st Style) error {
	if r <= 0 || !st.Visible() {
		return nil
	}
	x0, x1 := int(math.Floor(c.X-r)), int(math.Ceil(c.X+r))
	y0, y1 := int(math.Floor(c.Y-r)), int(math.Ceil(c.Y+r))
	edge := math.Max(st.StrokeWidth, 1)
	for my := y0; my <= y1; my++ {
		for mx := x0; mx <= x1; mx++ {
			d := math.Hypot(float64(mx)+0.5-c.X, float64(my)+0.5-c.Y)
			switch {
			case st.stroked() && d <= r && d > r-edge:
				t.buf.setPixel(mx, my, st.Stroke)
			case st.Fill != nil && d <= r:
				t.buf.setPixel(mx, my, st.Fill)
			}
		}
	}
	// a symbol smaller than a dot still shows
	if r < 1 {
		t.buf.setPixel(int(c.X), int(c.Y), paintColor(st))
	}
	return nil
}

func (t *Term) Rect(x, y, w, h float64, st Style) error {
	if w <= 0 || h <= 0 || !st.Visible() {
		return nil
	}
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	x1, y1 := int(math.Round(x+w))-1, int(math.Round(y+h))-1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	if st.Fill != nil {
		for my := y0; my <= y1; my++ {
			for mx := x0; mx <= x1; mx++ {
				t.buf.setPixel(mx, my, st.Fill)
			}
		}
	}
	if st.stroked() {
		t.buf.drawLine(x0, y0, x1, y0, st.Stroke)
		t.buf.drawLine(x1, y0, x1, y1, st.Stroke)
		t.buf.drawLine(x1, y1, x0, y1, st.Stroke)
		t.buf.drawLine(x0, y1, x0, y0, st.Stroke)
	}
	return nil
}

// Polyline strokes the path; a closed path with a fill is filled first by
// even-odd scanlines.
func (t *Term) Polyline(pts []Point, closed bool, st Style) error {
	if len(pts) < 2 || !st.Visible() {
		return nil
	}
	mic := make([][2]int, len(pts))
	for i, p := range pts {
		mic[i] = [2]int{int(math.Round(p.X)), int(math.Round(p.Y))}
	}
	if closed && st.Fill != nil && len(mic) >= 3 {
		t.fillRing(mic, st.Fill)
	}
	c := paintColor(st)
	n := len(mic)
	if !closed {
		n--
	}
	for i := 0; i < n; i++ {
		a, b := mic[i], mic[(i+1)%len(mic)]
		t.buf.drawLine(a[0], a[1], b[0], b[1], c)
	}
	return nil
}

func (t *Term) fillRing(ring [][2]int, c color.Color) {
	hMic := t.buf.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			if a[1] == b[1] {
				continue
			}
			y0, y1 := a[1], b[1]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				tt := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(a[0])+tt*float64(b[0]-a[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				t.buf.setPixel(xMic, yMic, c)
			}
		}
	}
}

func (t *Term) Text(pt Point, s string, ts TextStyle) error {
	rs := []rune(s)
	if len(rs) == 0 {
		return nil
	}
	w, h := t.TextSize(s, ts.Size)
	cx := int(math.Round((pt.X - w*ts.AX) / 2))
	cy := int(math.Round((pt.Y - h*ts.AY) / 4))
	if cy < 0 || cy >= t.buf.h {
		return nil
	}
	for i, r := range rs {
		x := cx + i
		if x < 0 || x >= t.buf.w {
			continue
		}
		t.label[cy][x] = r
		t.lfg[cy][x] = ts.Color
	}
	return nil
}

func (t *Term) TextSize(s string, _ float64) (float64, float64) {
	return float64(2 * len([]rune(s))), 4
}

// Lines renders every row with lipgloss colours, one style run per colour.
func (t *Term) Lines() []string {
	out := make([]string, t.buf.h)
	for y := 0; y < t.buf.h; y++ {
		var sb strings.Builder
		var run []rune
		var runColor color.Color
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == nil {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(runColor))).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < t.buf.w; x++ {
			r, c := t.buf.glyph(x, y), t.buf.fg[y][x]
			if l := t.label[y][x]; l != 0 {
				r, c = l, t.lfg[y][x]
			}
			if r == ' ' {
				c = nil
			}
			if !sameColor(c, runColor) {
				flush()
				runColor = c
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// String is Lines joined by newlines.
func (t *Term) String() string {
	return strings.Join(t.Lines(), "\n")
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Hex(a) == Hex(b)
}

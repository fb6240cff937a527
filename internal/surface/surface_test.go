package surface

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmap/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		err  bool
	}{
		{in: "#FF0000", want: color.NRGBA{R: 255, A: 255}},
		{in: "#f00", want: color.NRGBA{R: 255, A: 255}},
		{in: "#00FF0080", want: color.NRGBA{G: 255, A: 128}},
		{in: "white", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "Grey", want: color.NRGBA{R: 190, G: 190, B: 190, A: 255}},
		{in: "none"},
		{in: "NA"},
		{in: ""},
		{in: "transparent"},
		{in: "notacolour", err: true},
		{in: "#12", err: true},
		{in: "#GGHHII", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrColor))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexAndOpacity(t *testing.T) {
	assert.Equal(t, "none", Hex(nil))
	assert.Equal(t, "#0A0B0C", Hex(color.NRGBA{R: 10, G: 11, B: 12, A: 255}))
	assert.Equal(t, 0.0, Opacity(nil))
	assert.InDelta(t, 0.5, Opacity(color.NRGBA{A: 128}), 0.01)
}

func TestStyleVisible(t *testing.T) {
	assert.False(t, Style{}.Visible())
	assert.False(t, Style{Stroke: color.Black}.Visible(), "no width")
	assert.False(t, Style{Fill: color.NRGBA{}}.Visible(), "fully transparent")
	assert.True(t, Style{Fill: color.Black}.Visible())
	assert.True(t, Style{Stroke: color.Black, StrokeWidth: 1}.Visible())
}

func TestFitKeepsAspect(t *testing.T) {
	b := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 5}
	f := Fit(b, 200, 200, 10)
	assert.InDelta(t, 180, f.W, 1e-9)
	assert.InDelta(t, 90, f.H, 1e-9)
	assert.InDelta(t, 10, f.X0, 1e-9)
	assert.InDelta(t, 55, f.Y0, 1e-9)

	// north is up
	assert.Equal(t, Point{X: 10, Y: 145}, f.Project([2]float64{0, 0}))
	assert.Equal(t, Point{X: 190, Y: 55}, f.Project([2]float64{10, 5}))
}

func TestFrameRoundTrip(t *testing.T) {
	b := geom.BBox{MinX: -5, MinY: 40, MaxX: 10, MaxY: 51}
	f := Fit(b, 300, 120, 5).View(2.5, 12, -7)
	for _, p := range [][2]float64{{-5, 40}, {0, 45}, {10, 51}, {3.3, 47.1}} {
		got := f.Unproject(f.Project(p))
		assert.InDelta(t, p[0], got[0], 1e-9)
		assert.InDelta(t, p[1], got[1], 1e-9)
	}
}

func TestFitDegenerateBox(t *testing.T) {
	f := Fit(geom.BBox{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}, 100, 100, 0)
	assert.Equal(t, Point{X: 50, Y: 50}, f.Project([2]float64{3, 3}))
}

func TestSetupKeepsExistingFrame(t *testing.T) {
	r := NewRecorder(100, 100, 100)
	first := Setup(r, geom.BBox{MaxX: 1, MaxY: 1}, 0.1)
	assert.InDelta(t, 10, first.X0, 1e-9)
	second := Setup(r, geom.BBox{MaxX: 50, MaxY: 2}, 0)
	assert.Same(t, first, second)
}

func TestOutline(t *testing.T) {
	r := NewRecorder(100, 100, 72)
	d := geom.Data{
		Polygons: [][][][2]float64{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, {{0.2, 0.2}, {0.4, 0.2}, {0.4, 0.4}}}},
		Lines:    [][][2]float64{{{0, 0}, {1, 1}}},
		BBox:     geom.BBox{MaxX: 1, MaxY: 1},
	}
	Setup(r, d.BBox, 0)
	grey := MustColor("grey")
	require.NoError(t, Outline(r, d, Style{Fill: grey, Stroke: color.Black, StrokeWidth: 1}, Style{Fill: grey, Stroke: color.Black, StrokeWidth: 2}))

	ops := r.Kinds("polyline")
	require.Len(t, ops, 3)
	assert.True(t, ops[0].Closed)
	assert.Equal(t, "#BEBEBE", ops[0].Fill)
	assert.Equal(t, "none", ops[1].Fill, "holes are not filled")
	assert.False(t, ops[2].Closed)
	assert.Equal(t, "none", ops[2].Fill)
}

func TestRecorderFail(t *testing.T) {
	r := NewRecorder(10, 10, 72)
	r.Fail = errors.New("boom")
	assert.EqualError(t, r.Circle(Point{}, 1, Style{Fill: color.Black}), "boom")
	assert.Empty(t, r.Ops)
}

func TestSVGEncode(t *testing.T) {
	s := NewSVG(120, 80, 96, color.White)
	require.NoError(t, s.Circle(Point{X: 40.5, Y: 30.25}, 12.5, Style{Fill: MustColor("#FF0000"), Stroke: color.Black, StrokeWidth: 0.5}))
	require.NoError(t, s.Rect(1, 2, 3.5, 4, Style{Fill: color.NRGBA{B: 255, A: 128}}))
	require.NoError(t, s.Circle(Point{X: 1, Y: 1}, 10, Style{}))
	require.NoError(t, s.Text(Point{X: 10, Y: 10}, "Population", TextStyle{Size: 10}))

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "M28 30.25a12.5 12.5 0 1 0 25 0")
	assert.Contains(t, out, "fill:#FF0000")
	assert.Contains(t, out, "stroke-width:0.5")
	assert.Contains(t, out, "fill-opacity:0.502")
	assert.Contains(t, out, ">Population</text>")
	assert.Equal(t, 2, strings.Count(out, "<path"), "invisible shapes are skipped")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestPNGIdempotent(t *testing.T) {
	draw := func() []byte {
		p := NewPNG(64, 48, 96, color.White)
		defer p.Close()
		require.NoError(t, p.Circle(Point{X: 20, Y: 20}, 8, Style{Fill: MustColor("#3182BD"), Stroke: color.Black, StrokeWidth: 1}))
		require.NoError(t, p.Rect(40, 10, 6, 20, Style{Fill: MustColor("#E6550D")}))
		var buf bytes.Buffer
		require.NoError(t, p.Encode(&buf))
		return buf.Bytes()
	}
	a, b := draw(), draw()
	require.Greater(t, len(a), 8)
	assert.Equal(t, []byte("\x89PNG"), a[:4])
	assert.Equal(t, a, b)
}

func TestTermCircleAndLabel(t *testing.T) {
	term := NewTerm(10, 3, 16)
	w, h := term.Size()
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 12.0, h)

	require.NoError(t, term.Circle(Point{X: 8, Y: 8}, 6, Style{Fill: MustColor("red")}))
	require.NoError(t, term.Text(Point{X: 12, Y: 8}, "ab", TextStyle{}))

	lines := term.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "⣿", "interior cells are fully dotted")
	assert.Contains(t, lines[2], "ab")
	// nothing is drawn in the last column of the first row
	assert.True(t, strings.HasSuffix(lines[0], " "))
}

func TestTermTinySymbolStillShows(t *testing.T) {
	term := NewTerm(4, 2, 16)
	require.NoError(t, term.Circle(Point{X: 3.2, Y: 5.1}, 0.2, Style{Fill: color.Black}))
	assert.NotEqual(t, ' ', term.buf.glyph(1, 1))
}

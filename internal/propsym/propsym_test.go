package propsym

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"propmap/internal/bind"
	"propmap/internal/classify"
	"propmap/internal/legend"
	"propmap/internal/surface"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	grey  = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	black = color.NRGBA{A: 255}
)

func records(sizes ...float64) []bind.Record {
	out := make([]bind.Record, len(sizes))
	for i, s := range sizes {
		out[i] = bind.Record{
			ID:       string(rune('a' + i)),
			Position: [2]float64{float64(i), float64(i)},
			Size:     s,
			Color:    float64(10 * i),
		}
	}
	return out
}

func options() Options {
	return Options{
		Kind:   Circle,
		Inches: 0.3,
		Classification: classify.Request{
			Method: "fixed",
			Breaks: []float64{0, 10, 40},
			Colors: []color.Color{red, blue},
		},
		NoDataColor: grey,
		Border:      black,
		BorderWidth: 0.72,
		SizeLegend:  legend.Style{Position: "none"},
		ColorLegend: legend.Style{Position: "none"},
	}
}

func TestScaleScenario(t *testing.T) {
	sz, err := Scale(records(10, 40, 90), Circle, 0.3, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, sz.PerRecord, 1e-9)
	assert.Equal(t, 90.0, sz.Fixmax)
	assert.Equal(t, 0.3, sz.Max)
	assert.Nil(t, sz.Reference)

	sl, _, err := Reconcile(nil, sz, Circle, nil, nil)
	require.NoError(t, err)
	require.Len(t, sl.Ticks, 4)
	var values []float64
	for _, tk := range sl.Ticks {
		values = append(values, tk.Value)
	}
	assert.InDeltaSlice(t, []float64{90, 60, 30, 0}, values, 1e-9)
	assert.InDelta(t, 0.3, sl.Ticks[0].Size, 1e-9)
	assert.InDelta(t, 0.3*math.Sqrt(2.0/3), sl.Ticks[1].Size, 1e-9)
	assert.InDelta(t, 0.1, sl.Ticks[3].Size, 1e-9, "zero tick is clamped to the smallest symbol")
}

func TestScaleAreaTrue(t *testing.T) {
	for _, k := range []Kind{Circle, Square} {
		sz, err := Scale(records(1, 7, 33, 250, 1000), k, 0.5, 0)
		require.NoError(t, err)
		for i, v := range []float64{1, 7, 33, 250, 1000} {
			assert.InDelta(t, v/1000, math.Pow(sz.PerRecord[i]/0.5, 2), 1e-12, k.String())
		}
	}
}

func TestScaleLengthTrue(t *testing.T) {
	sz, err := Scale(records(5, 50, 100), Bar, 1.4, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.07, 0.7, 1.4}, sz.PerRecord, 1e-12)
}

func TestScaleMaxSizeContract(t *testing.T) {
	sz, err := Scale(records(3, 1, 2), Square, 0.4, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.4, sz.Largest)
	assert.Nil(t, sz.Reference)
}

func TestScaleNonPositiveValues(t *testing.T) {
	sz, err := Scale(records(-4, 0, 16), Circle, 0.2, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0.2}, sz.PerRecord)
}

func TestScaleReferenceEntry(t *testing.T) {
	recs := records(10, 40, 90)
	sz, err := Scale(recs, Circle, 0.3, 200)
	require.NoError(t, err)
	require.NotNil(t, sz.Reference)
	assert.Equal(t, Reference{Position: recs[0].Position, Value: 200, Size: 0.3}, *sz.Reference)
	assert.Less(t, sz.Largest, 0.3)

	sl, _, err := Reconcile(nil, sz, Circle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, legend.Tick{Value: 200, Size: 0.3}, sl.Ticks[0])
}

func TestScaleFixmaxBelowDataWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	sz, err := Scale(records(10, 40, 90), Circle, 0.3, 40)
	require.NoError(t, err)
	assert.InDelta(t, 0.3*1.5, sz.PerRecord[2], 1e-12, "sizes are not clamped")
	assert.Nil(t, sz.Reference)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["oversize"])
}

func TestScaleErrors(t *testing.T) {
	tests := []struct {
		name   string
		recs   []bind.Record
		kind   Kind
		inches float64
		fixmax float64
	}{
		{name: "empty", recs: nil, kind: Circle, inches: 0.3},
		{name: "zero inches", recs: records(1), kind: Circle},
		{name: "negative fixmax", recs: records(1), kind: Circle, inches: 0.3, fixmax: -1},
		{name: "all zero", recs: records(0, -2), kind: Circle, inches: 0.3},
		{name: "unknown kind", recs: records(1), kind: Kind(9), inches: 0.3},
		{name: "infinite fixmax", recs: records(1), kind: Circle, inches: 0.3, fixmax: math.Inf(1)},
		{name: "NaN fixmax", recs: records(1), kind: Circle, inches: 0.3, fixmax: math.NaN()},
		{name: "infinite value", recs: records(10, math.Inf(1)), kind: Circle, inches: 0.3},
		{name: "infinite value with fixmax", recs: records(10, math.Inf(1)), kind: Bar, inches: 0.3, fixmax: 100},
		{name: "NaN value", recs: records(math.NaN(), 10), kind: Circle, inches: 0.3},
		{name: "NaN inches", recs: records(1), kind: Circle, inches: math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scale(tt.recs, tt.kind, tt.inches, tt.fixmax)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrConfig))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Bar ")
	require.NoError(t, err)
	assert.Equal(t, Bar, k)
	_, err = ParseKind("triangle")
	assert.True(t, eris.Is(err, ErrConfig))
	assert.Equal(t, "square", Square.String())
	assert.Equal(t, "unknown", Kind(-1).String())
}

func TestRenderReferenceIsInvisibleAndFirst(t *testing.T) {
	opts := options()
	opts.Fixmax = 200
	rec := surface.NewRecorder(1000, 800, 100)
	r, err := Render(rec, records(10, 40, 90), opts)
	require.NoError(t, err)

	require.Len(t, r.Symbols, 4)
	assert.True(t, r.Symbols[0].Reference)
	circles := rec.Kinds("circle")
	require.Len(t, circles, 4)
	assert.Equal(t, "none", circles[0].Fill)
	assert.Equal(t, "none", circles[0].Stroke)
	assert.InDelta(t, 30, circles[0].R, 1e-9)
	for _, c := range circles[1:] {
		assert.Equal(t, "#000000", c.Stroke)
		assert.InDelta(t, 1, c.Width, 1e-9)
	}
}

func TestRenderColorsMatchLegend(t *testing.T) {
	rec := surface.NewRecorder(1000, 800, 100)
	recs := records(10, 40, 90) // colours 0, 10, 20
	r, err := Render(rec, recs, options())
	require.NoError(t, err)

	assert.Equal(t, r.Classes.Breaks, r.ColorLegend.Breaks)
	assert.Equal(t, r.Classes.Palette, r.ColorLegend.Palette)
	for _, sym := range r.Symbols {
		require.GreaterOrEqual(t, sym.Class, 0)
		assert.Equal(t, r.ColorLegend.Palette[sym.Class], sym.Fill)
	}
	fills := []string{}
	for _, c := range rec.Kinds("circle") {
		fills = append(fills, c.Fill)
	}
	assert.Equal(t, []string{"#FF0000", "#0000FF", "#0000FF"}, fills)
	assert.False(t, r.ColorLegend.NoData)
}

func TestRenderNoData(t *testing.T) {
	recs := records(10, 40, 90)
	recs[1].Color = math.NaN()
	recs[2].Color = 99 // outside the fixed breaks

	opts := options()
	opts.ColorLegend = legend.Style{Position: "topleft", NoDataLabel: "missing"}
	rec := surface.NewRecorder(1000, 800, 100)
	r, err := Render(rec, recs, opts)
	require.NoError(t, err)

	assert.True(t, r.ColorLegend.NoData)
	assert.Equal(t, color.Color(grey), r.Symbols[1].Fill)
	assert.Equal(t, -1, r.Symbols[2].Class)
	var texts []string
	for _, op := range rec.Kinds("text") {
		texts = append(texts, op.Text)
	}
	assert.Contains(t, texts, "missing")
	rects := rec.Kinds("rect")
	require.Len(t, rects, 3, "two classes and the no-data box")
	assert.Equal(t, "#808080", rects[2].Fill)
}

func TestRenderOutOfRangeIsNotNoData(t *testing.T) {
	recs := records(10, 40, 90)
	recs[2].Color = 99 // outside the fixed breaks, but present

	opts := options()
	opts.ColorLegend = legend.Style{Position: "topleft", NoDataLabel: "missing"}
	rec := surface.NewRecorder(1000, 800, 100)
	r, err := Render(rec, recs, opts)
	require.NoError(t, err)

	assert.False(t, r.ColorLegend.NoData)
	assert.True(t, r.Classes.Unclassified())
	assert.Equal(t, -1, r.Symbols[2].Class)
	assert.Equal(t, color.Color(grey), r.Symbols[2].Fill)
	assert.Len(t, rec.Kinds("rect"), 2, "no no-data box")
	for _, op := range rec.Kinds("text") {
		assert.NotEqual(t, "missing", op.Text)
	}
}

func TestReconcileNoDataFollowsMissingColour(t *testing.T) {
	recs := records(10, 40, 90)
	sz, err := Scale(recs, Circle, 0.3, 0)
	require.NoError(t, err)

	_, cl, err := Reconcile(recs, sz, Circle, nil, grey)
	require.NoError(t, err)
	assert.False(t, cl.NoData)

	recs[0].Color = math.NaN()
	_, cl, err = Reconcile(recs, sz, Circle, nil, grey)
	require.NoError(t, err)
	assert.True(t, cl.NoData)
}

func TestRenderIdempotent(t *testing.T) {
	opts := options()
	opts.SizeLegend = legend.Style{Position: "auto", Title: "Population"}
	opts.ColorLegend = legend.Style{Position: "auto", Title: "Rate", Frame: true}
	a := surface.NewRecorder(640, 480, 96)
	b := surface.NewRecorder(640, 480, 96)
	_, err := Render(a, records(10, 40, 90), opts)
	require.NoError(t, err)
	_, err = Render(b, records(10, 40, 90), opts)
	require.NoError(t, err)
	assert.Equal(t, a.Ops, b.Ops)
	assert.NotEmpty(t, a.Kinds("text"))
}

func TestRenderLegendsDoNotOverlap(t *testing.T) {
	opts := options()
	opts.SizeLegend = legend.Style{Position: "topright", Title: "Population"}
	opts.ColorLegend = legend.Style{Position: "topright", Title: "Rate"}
	rec := surface.NewRecorder(800, 600, 96)
	r, err := Render(rec, records(10, 40, 90), opts)
	require.NoError(t, err)
	assert.False(t, r.SizeBox.Empty())
	assert.False(t, r.ColorBox.Empty())
	assert.GreaterOrEqual(t, r.ColorBox.Y, r.SizeBox.Y+r.SizeBox.H)
}

func TestRenderBarsRiseFromAnchor(t *testing.T) {
	opts := options()
	opts.Kind = Bar
	opts.Inches = 0.7
	rec := surface.NewRecorder(1000, 800, 100)
	_, err := Render(rec, records(35, 70), opts)
	require.NoError(t, err)

	f := rec.Frame()
	rects := rec.Kinds("rect")
	require.Len(t, rects, 2)
	for i, rc := range rects {
		at := f.Project([2]float64{float64(i), float64(i)})
		assert.InDelta(t, 10, rc.W, 1e-9)
		assert.InDelta(t, at.X-5, rc.X, 1e-9)
		assert.InDelta(t, at.Y, rc.Y+rc.H, 1e-9)
	}
	assert.InDelta(t, 35, rects[0].H, 1e-9)
	assert.InDelta(t, 70, rects[1].H, 1e-9)
}

func TestRenderSquaresCentred(t *testing.T) {
	opts := options()
	opts.Kind = Square
	rec := surface.NewRecorder(1000, 800, 100)
	_, err := Render(rec, records(90), opts)
	require.NoError(t, err)
	rects := rec.Kinds("rect")
	require.Len(t, rects, 1)
	at := rec.Frame().Project([2]float64{0, 0})
	assert.InDelta(t, at.X, rects[0].X+rects[0].W/2, 1e-9)
	assert.InDelta(t, at.Y, rects[0].Y+rects[0].H/2, 1e-9)
	assert.InDelta(t, 30, rects[0].W, 1e-9)
}

func TestRenderSkipsZeroSizes(t *testing.T) {
	rec := surface.NewRecorder(1000, 800, 100)
	r, err := Render(rec, records(90, 0), options())
	require.NoError(t, err)
	assert.Len(t, r.Symbols, 2)
	assert.Len(t, rec.Kinds("circle"), 1)
}

func TestRenderRejectsInfiniteSize(t *testing.T) {
	rec := surface.NewRecorder(1000, 800, 100)
	_, err := Render(rec, records(10, math.Inf(1), 90), options())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig), err.Error())
	assert.Empty(t, rec.Ops)
}

func TestDrawSymbolsSkipsNaNSize(t *testing.T) {
	rec := surface.NewRecorder(1000, 800, 100)
	rec.SetFrame(surface.Fit(geomBox(0, 0, 10, 10), 1000, 800, 0))
	syms := []Symbol{
		{ID: "a", Position: [2]float64{1, 1}, Size: math.NaN(), Fill: red},
		{ID: "b", Position: [2]float64{2, 2}, Size: 0.2, Fill: red},
	}
	require.NoError(t, drawSymbols(rec, syms, circle{}, 0.3, black, 1))
	circles := rec.Kinds("circle")
	require.Len(t, circles, 1)
	assert.InDelta(t, 20, circles[0].R, 1e-9)
}

func TestRenderKeepsExistingFrame(t *testing.T) {
	rec := surface.NewRecorder(1000, 800, 100)
	frame := surface.Fit(geomBox(-10, -10, 10, 10), 1000, 800, 0)
	rec.SetFrame(frame)
	_, err := Render(rec, records(90), options())
	require.NoError(t, err)
	assert.Same(t, frame, rec.Frame())
	at := frame.Project([2]float64{0, 0})
	c := rec.Kinds("circle")[0]
	assert.Equal(t, at.X, c.X)
}

func TestRenderValidatesBeforeDrawing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		target error
	}{
		{"inches", func(o *Options) { o.Inches = 0 }, ErrConfig},
		{"infinite fixmax", func(o *Options) { o.Fixmax = math.Inf(1) }, ErrConfig},
		{"kind", func(o *Options) { o.Kind = Kind(5) }, ErrConfig},
		{"legend position", func(o *Options) { o.SizeLegend.Position = "middle" }, ErrConfig},
		{"palette mismatch", func(o *Options) { o.Classification.Colors = []color.Color{red} }, classify.ErrPaletteMismatch},
		{"bad breaks", func(o *Options) { o.Classification.Breaks = []float64{5, 1} }, classify.ErrClassification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options()
			tt.mutate(&opts)
			rec := surface.NewRecorder(1000, 800, 100)
			_, err := Render(rec, records(10, 40, 90), opts)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.target), err.Error())
			assert.Empty(t, rec.Ops)
		})
	}
}

func TestRenderPropagatesSurfaceErrors(t *testing.T) {
	boom := errors.New("boom")
	rec := surface.NewRecorder(1000, 800, 100)
	rec.Fail = boom
	_, err := Render(rec, records(10), options())
	assert.Same(t, boom, err)
}

type stubClassifier struct {
	res *classify.Result
}

func (s stubClassifier) Classify([]float64, classify.Request) (*classify.Result, error) {
	return s.res, nil
}

func TestLayerCustomClassifier(t *testing.T) {
	res := &classify.Result{
		Breaks:  []float64{0, 1},
		Palette: []color.Color{blue},
		Colors:  []color.Color{blue, nil},
		Classes: []int{0, -1},
	}
	l := Layer{Options: options(), Classifier: stubClassifier{res: res}}
	r, err := l.Resolve(records(1, 2))
	require.NoError(t, err)
	assert.Same(t, res, r.Classes)
	assert.True(t, r.ColorLegend.NoData)

	l.Classifier = stubClassifier{res: &classify.Result{Colors: []color.Color{blue}}}
	_, err = l.Resolve(records(1, 2))
	assert.True(t, eris.Is(err, classify.ErrClassification))
}

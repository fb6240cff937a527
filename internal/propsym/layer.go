// Package propsym renders proportional symbols coloured by a choropleth
// classification. One call binds nothing and keeps no state: it classifies
// the colour values, scales the size values, derives both legends from the
// same numbers and draws symbols then legends onto a surface.
package propsym

import (
	"image/color"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"propmap/internal/bind"
	"propmap/internal/classify"
	"propmap/internal/geom"
	"propmap/internal/legend"
	"propmap/internal/surface"
)

var nan = math.NaN()

// Options is the full configuration of one layer.
type Options struct {
	Kind Kind
	// Inches is the size of the symbol drawn for Fixmax.
	Inches float64
	// Fixmax is the value drawn Inches large; 0 uses the largest value.
	Fixmax         float64
	Classification classify.Request
	NoDataColor    color.Color
	Border         color.Color
	BorderWidth    float64 // points
	SizeLegend     legend.Style
	ColorLegend    legend.Style
	// Margin is kept around the map, in inches, when the surface has no
	// frame yet.
	Margin float64
}

// Validate checks everything that does not depend on the data.
func (o Options) Validate() error {
	if _, err := o.Kind.shape(); err != nil {
		return err
	}
	if !(o.Inches > 0) || math.IsInf(o.Inches, 1) {
		return eris.Wrapf(ErrConfig, "propsym: inches must be positive, got %g", o.Inches)
	}
	if o.Fixmax < 0 || math.IsInf(o.Fixmax, 0) || math.IsNaN(o.Fixmax) {
		return eris.Wrapf(ErrConfig, "propsym: fixmax must be positive, got %g", o.Fixmax)
	}
	if o.BorderWidth < 0 {
		return eris.Wrapf(ErrConfig, "propsym: border width must not be negative, got %g", o.BorderWidth)
	}
	for _, p := range []string{o.SizeLegend.Position, o.ColorLegend.Position} {
		if err := legend.CheckPosition(p); err != nil {
			return eris.Wrap(ErrConfig, err.Error())
		}
	}
	return nil
}

// Rendering is the resolved layer: everything that was, or would be, drawn.
type Rendering struct {
	Kind        Kind             `json:"kind" yaml:"kind"`
	Sizes       Sizes            `json:"sizes" yaml:"sizes"`
	Classes     *classify.Result `json:"-" yaml:"-"`
	SizeLegend  SizeLegend       `json:"size_legend" yaml:"size_legend"`
	ColorLegend ColorLegend      `json:"color_legend" yaml:"color_legend"`
	Symbols     []Symbol         `json:"symbols" yaml:"symbols"`
	// SizeBox and ColorBox are where the legends landed; empty when hidden
	// or not drawn.
	SizeBox  legend.Box `json:"-" yaml:"-"`
	ColorBox legend.Box `json:"-" yaml:"-"`
}

// Layer renders records with fixed options.
type Layer struct {
	Options Options
	// Classifier defaults to classify.Engine.
	Classifier classify.Adapter
}

// Render is Layer{Options: opts}.Render.
func Render(s surface.Surface, records []bind.Record, opts Options) (*Rendering, error) {
	return Layer{Options: opts}.Render(s, records)
}

// Resolve validates the options and computes sizes, classes, legends and
// symbols without drawing.
func (l Layer) Resolve(records []bind.Record) (*Rendering, error) {
	o := l.Options
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Wrap(ErrConfig, "propsym: no records to render")
	}
	cls := l.Classifier
	if cls == nil {
		cls = classify.Engine{}
	}
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Color
	}
	res, err := cls.Classify(values, o.Classification)
	if err != nil {
		return nil, eris.Wrap(err, "propsym: classify")
	}
	if len(res.Colors) != len(records) {
		return nil, eris.Wrapf(classify.ErrClassification,
			"propsym: classifier returned %d colours for %d records", len(res.Colors), len(records))
	}
	sz, err := Scale(records, o.Kind, o.Inches, o.Fixmax)
	if err != nil {
		return nil, err
	}
	sl, cl, err := Reconcile(records, sz, o.Kind, res, o.NoDataColor)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("layer resolved",
		zap.Int("records", len(records)),
		zap.Stringer("kind", o.Kind),
		zap.Float64("fixmax", sz.Fixmax),
		zap.Int("classes", res.NClasses()),
		zap.Bool("reference", sz.Reference != nil),
		zap.Bool("no_data", cl.NoData))
	return &Rendering{
		Kind:        o.Kind,
		Sizes:       sz,
		Classes:     res,
		SizeLegend:  sl,
		ColorLegend: cl,
		Symbols:     Symbols(records, sz, res, o.NoDataColor),
	}, nil
}

// Render resolves records and draws them onto s: symbols, then the size
// legend, then the colour legend. A surface without a frame gets one fitted
// to the records.
func (l Layer) Render(s surface.Surface, records []bind.Record) (*Rendering, error) {
	r, err := l.Resolve(records)
	if err != nil {
		return nil, err
	}
	if err := r.Draw(s, l.Options); err != nil {
		return r, err
	}
	return r, nil
}

// Draw paints a resolved layer. An error from the surface stops drawing
// and leaves it partly drawn.
func (r *Rendering) Draw(s surface.Surface, o Options) error {
	sh, err := r.Kind.shape()
	if err != nil {
		return err
	}
	f := surface.Setup(s, r.bbox(), o.Margin)
	width := o.BorderWidth * s.DPI() / 72
	if err := drawSymbols(s, r.Symbols, sh, o.Inches, o.Border, width); err != nil {
		return err
	}

	occupied := make([]surface.Point, 0, len(r.Symbols))
	for _, sym := range r.Symbols {
		if !sym.Reference {
			occupied = append(occupied, f.Project(sym.Position))
		}
	}
	r.SizeBox, err = legend.DrawSize(s, o.SizeLegend, legend.SizeInput{
		Shape:       sh.legend(),
		Ticks:       r.SizeLegend.Ticks,
		Inches:      r.SizeLegend.Inches,
		Border:      o.Border,
		BorderWidth: width,
	}, occupied, nil)
	if err != nil {
		return err
	}
	r.ColorBox, err = legend.DrawColor(s, o.ColorLegend, legend.ColorInput{
		Breaks:      r.ColorLegend.Breaks,
		Palette:     r.ColorLegend.Palette,
		NoData:      r.ColorLegend.NoData,
		NoDataColor: r.ColorLegend.NoDataColor,
		Border:      o.Border,
		BorderWidth: width,
	}, occupied, []legend.Box{r.SizeBox})
	if err != nil {
		return err
	}
	return nil
}

func (r *Rendering) bbox() geom.BBox {
	var b geom.BBox
	for i, sym := range r.Symbols {
		b = b.Extend(sym.Position, i == 0)
	}
	return b
}

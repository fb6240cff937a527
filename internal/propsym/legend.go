package propsym

import (
	"image/color"

	"propmap/internal/bind"
	"propmap/internal/classify"
	"propmap/internal/legend"
)

// SizeLegend is the size legend content: four ticks from fixmax down to 0.
type SizeLegend struct {
	Kind   Kind          `json:"kind" yaml:"kind"`
	Ticks  []legend.Tick `json:"ticks" yaml:"ticks"`
	Inches float64       `json:"inches" yaml:"inches"`
}

// ColorLegend shares its breaks and palette with the classification the
// symbols were coloured from.
type ColorLegend struct {
	Breaks      []float64     `json:"breaks" yaml:"breaks"`
	Palette     []color.Color `json:"-" yaml:"-"`
	NoData      bool          `json:"no_data" yaml:"no_data"`
	NoDataColor color.Color   `json:"-" yaml:"-"`
}

// Reconcile derives both legends from the scaled sizes and the
// classification, so each legend matches its encoding. The no-data swatch
// is shown when a record has no colour value; values outside the breaks
// are drawn in the no-data colour without adding it.
func Reconcile(records []bind.Record, sz Sizes, kind Kind, res *classify.Result, noData color.Color) (SizeLegend, ColorLegend, error) {
	sh, err := kind.shape()
	if err != nil {
		return SizeLegend{}, ColorLegend{}, err
	}
	floor := sz.minPositive()
	values := []float64{sz.Fixmax, 2 * sz.Fixmax / 3, sz.Fixmax / 3, 0}
	sl := SizeLegend{Kind: kind, Inches: sz.Max, Ticks: make([]legend.Tick, len(values))}
	for i, v := range values {
		s := sh.size(v, sz.Fixmax, sz.Max)
		if s < floor {
			s = floor
		}
		sl.Ticks[i] = legend.Tick{Value: v, Size: s}
	}

	cl := ColorLegend{NoDataColor: noData}
	if res != nil {
		cl.Breaks = res.Breaks
		cl.Palette = res.Palette
	}
	for _, r := range records {
		if !r.HasColor() {
			cl.NoData = true
			break
		}
	}
	return sl, cl, nil
}

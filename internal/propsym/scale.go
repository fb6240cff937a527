package propsym

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"propmap/internal/bind"
)

// ErrConfig reports layer options that cannot be rendered.
var ErrConfig = eris.New("propsym: invalid configuration")

// Reference is the invisible symbol added when no record reaches the
// maximum size, so the size legend can show fixmax at full size.
type Reference struct {
	Position [2]float64 `json:"position" yaml:"position"`
	Value    float64    `json:"value" yaml:"value"`
	Size     float64    `json:"size" yaml:"size"`
}

// Sizes is the outcome of scaling one record set. Sizes are in inches.
type Sizes struct {
	PerRecord []float64 `json:"per_record" yaml:"per_record"`
	// Max is the size of Fixmax, the configured inches.
	Max float64 `json:"max" yaml:"max"`
	// Largest is the largest size actually plotted.
	Largest   float64    `json:"largest" yaml:"largest"`
	Fixmax    float64    `json:"fixmax" yaml:"fixmax"`
	Reference *Reference `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Scale maps record sizes to symbol sizes so that fixmax, or the largest
// value when fixmax is 0, is drawn inches large.
func Scale(records []bind.Record, kind Kind, inches, fixmax float64) (Sizes, error) {
	sh, err := kind.shape()
	if err != nil {
		return Sizes{}, err
	}
	if len(records) == 0 {
		return Sizes{}, eris.Wrap(ErrConfig, "propsym: no records to scale")
	}
	if !(inches > 0) || math.IsInf(inches, 1) {
		return Sizes{}, eris.Wrapf(ErrConfig, "propsym: inches must be positive, got %g", inches)
	}
	if fixmax < 0 || math.IsInf(fixmax, 0) || math.IsNaN(fixmax) {
		return Sizes{}, eris.Wrapf(ErrConfig, "propsym: fixmax must be positive, got %g", fixmax)
	}
	dataMax := math.Inf(-1)
	for _, r := range records {
		if math.IsInf(r.Size, 0) || math.IsNaN(r.Size) {
			return Sizes{}, eris.Wrapf(ErrConfig, "propsym: record %q has size value %g", r.ID, r.Size)
		}
		dataMax = max(dataMax, r.Size)
	}
	if fixmax == 0 {
		fixmax = dataMax
	}
	if fixmax <= 0 {
		return Sizes{}, eris.Wrapf(ErrConfig, "propsym: fixmax must be positive, got %g", fixmax)
	}

	sz := Sizes{PerRecord: make([]float64, len(records)), Max: inches, Fixmax: fixmax}
	oversize := 0
	for i, r := range records {
		s := sh.size(r.Size, fixmax, inches)
		sz.PerRecord[i] = s
		sz.Largest = max(sz.Largest, s)
		if s > inches {
			oversize++
		}
	}
	if oversize > 0 {
		zap.L().Warn("fixmax is below the largest value, symbols exceed the maximum size",
			zap.Int("oversize", oversize),
			zap.Float64("fixmax", fixmax),
			zap.Float64("data_max", dataMax))
	}
	if inches > sz.Largest {
		sz.Reference = &Reference{Position: records[0].Position, Value: fixmax, Size: inches}
	}
	return sz, nil
}

// minPositive returns the smallest size above zero, or 0 if there is none.
func (s Sizes) minPositive() float64 {
	m := 0.0
	for _, v := range s.PerRecord {
		if v > 0 && (m == 0 || v < m) {
			m = v
		}
	}
	return m
}

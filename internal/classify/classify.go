// Package classify turns a numeric variable into classes and colours:
// break points, a palette with one colour per class, and a colour per value.
package classify

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrClassification reports data or breaks that cannot be classified.
	ErrClassification = eris.New("classify: cannot classify")
	// ErrPaletteMismatch reports an explicit colour list whose length
	// differs from the number of classes.
	ErrPaletteMismatch = eris.New("classify: colour count does not match class count")
)

// Request is the classification part of a layer configuration.
type Request struct {
	// Method is one of Methods; empty means quantile.
	Method string
	// Breaks are explicit break points, used by the fixed method.
	Breaks []float64
	// NClasses is the requested class count; 0 uses Sturges' rule.
	NClasses int
	// Palette names a ramp from Palettes; empty means Mint.
	Palette string
	// Colors, when set, is used instead of Palette and must hold one
	// colour per class.
	Colors []color.Color
	// Alpha is the palette opacity in (0, 1]; 0 means opaque.
	Alpha   float64
	Reverse bool
}

// Result is one classification of a value vector. It is never mutated
// after Classify returns.
type Result struct {
	Breaks  []float64
	Palette []color.Color
	// Colors has one entry per input value; nil means no class.
	Colors []color.Color
	// Classes has one entry per input value; -1 means no class.
	Classes []int
}

// NClasses returns the number of classes.
func (r *Result) NClasses() int { return len(r.Palette) }

// Unclassified reports whether any value received no class: missing
// values and values outside the breaks.
func (r *Result) Unclassified() bool {
	for _, c := range r.Classes {
		if c < 0 {
			return true
		}
	}
	return false
}

// Adapter is what a layer needs from a classifier: one Result per value
// vector, aligned with it.
type Adapter interface {
	Classify(values []float64, req Request) (*Result, error)
}

// Engine is the default Adapter.
type Engine struct{}

// Classify computes breaks for the finite values, builds the palette and
// assigns every value (NaN included) to a class.
func (Engine) Classify(values []float64, req Request) (*Result, error) {
	return Classify(values, req)
}

func Classify(values []float64, req Request) (*Result, error) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	sort.Float64s(finite)

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" {
		method = "quantile"
		if len(req.Breaks) > 0 {
			method = "fixed"
		}
	}

	var breaks []float64
	if method == "fixed" {
		if err := checkBreaks(req.Breaks); err != nil {
			return nil, err
		}
		breaks = append([]float64(nil), req.Breaks...)
	} else {
		fn, ok := methods[method]
		if !ok {
			return nil, eris.Wrapf(ErrClassification, "classify: unknown method %q", req.Method)
		}
		distinct := countDistinct(finite)
		if distinct < 2 {
			return nil, eris.Wrapf(ErrClassification, "classify: %d distinct values, need at least 2", distinct)
		}
		n := req.NClasses
		if n <= 0 && len(req.Colors) > 0 {
			n = len(req.Colors)
		}
		if n <= 0 {
			n = min(Sturges(len(finite)), distinct)
		} else if n > distinct {
			return nil, eris.Wrapf(ErrClassification, "classify: %d classes requested for %d distinct values", n, distinct)
		}
		var err error
		breaks, err = fn(finite, n)
		if err != nil {
			return nil, err
		}
		breaks = dedupe(breaks)
		if len(breaks) < 2 {
			return nil, eris.Wrapf(ErrClassification, "classify: %s produced no class", method)
		}
	}

	nClasses := len(breaks) - 1
	var pal []color.Color
	if len(req.Colors) > 0 {
		if len(req.Colors) != nClasses {
			return nil, eris.Wrapf(ErrPaletteMismatch, "classify: %d colours for %d classes", len(req.Colors), nClasses)
		}
		pal = append([]color.Color(nil), req.Colors...)
		if req.Reverse {
			reverse(pal)
		}
	} else {
		var err error
		pal, err = Ramp(req.Palette, nClasses, req.Alpha, req.Reverse)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{
		Breaks:  breaks,
		Palette: pal,
		Colors:  make([]color.Color, len(values)),
		Classes: make([]int, len(values)),
	}
	for i, v := range values {
		c := ClassOf(v, breaks)
		res.Classes[i] = c
		if c >= 0 {
			res.Colors[i] = pal[c]
		}
	}
	return res, nil
}

// ClassOf returns the index of the class holding v, or -1 when v is NaN or
// outside the breaks. Classes are [b_i, b_i+1), the last one closed.
func ClassOf(v float64, breaks []float64) int {
	n := len(breaks) - 1
	if n < 1 || math.IsNaN(v) || v < breaks[0] || v > breaks[n] {
		return -1
	}
	i := sort.Search(len(breaks), func(i int) bool { return breaks[i] > v }) - 1
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Sturges returns ceil(log2(n) + 1), the default class count.
func Sturges(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)) + 1))
}

func checkBreaks(b []float64) error {
	if len(b) < 2 {
		return eris.Wrapf(ErrClassification, "classify: %d breaks, need at least 2", len(b))
	}
	for i := range b {
		if math.IsNaN(b[i]) {
			return eris.Wrap(ErrClassification, "classify: NaN break")
		}
		if i > 0 && b[i] < b[i-1] {
			return eris.Wrapf(ErrClassification, "classify: breaks not increasing at %d (%g < %g)", i, b[i], b[i-1])
		}
	}
	return nil
}

// countDistinct expects sorted input.
func countDistinct(xs []float64) int {
	n := 0
	for i, x := range xs {
		if i == 0 || x != xs[i-1] {
			n++
		}
	}
	return n
}

func dedupe(b []float64) []float64 {
	out := b[:0]
	for i, x := range b {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func reverse(cs []color.Color) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}

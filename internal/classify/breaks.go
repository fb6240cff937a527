package classify

import (
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/rotisserie/eris"
)

// breakFunc computes n+1 breaks (possibly fewer for data-driven methods)
// from sorted finite values holding at least two distinct values.
type breakFunc func(xs []float64, n int) ([]float64, error)

var methods = map[string]breakFunc{
	"equal":     equalBreaks,
	"quantile":  quantileBreaks,
	"q6":        q6Breaks,
	"pretty":    prettyBreaks,
	"sd":        sdBreaks,
	"msd":       msdBreaks,
	"geom":      geomBreaks,
	"arith":     arithBreaks,
	"jenks":     jenksBreaks,
	"fisher":    jenksBreaks,
	"headtails": headTailsBreaks,
}

// Methods lists the supported method names, fixed included.
var Methods = []string{"quantile", "equal", "q6", "pretty", "sd", "msd", "geom", "arith", "jenks", "fisher", "headtails", "fixed"}

func equalBreaks(xs []float64, n int) ([]float64, error) {
	lo, hi := xs[0], xs[len(xs)-1]
	step := (hi - lo) / float64(n)
	b := make([]float64, n+1)
	for i := range b {
		b[i] = lo + float64(i)*step
	}
	b[n] = hi
	return b, nil
}

func quantileBreaks(xs []float64, n int) ([]float64, error) {
	probs := make([]float64, n+1)
	for i := range probs {
		probs[i] = float64(i) / float64(n)
	}
	return quantiles(xs, probs), nil
}

func q6Breaks(xs []float64, _ int) ([]float64, error) {
	return quantiles(xs, []float64{0, .05, .275, .5, .725, .95, 1}), nil
}

func quantiles(xs []float64, probs []float64) []float64 {
	s := stats.Sample{Xs: xs, Sorted: true}
	b := make([]float64, len(probs))
	for i, p := range probs {
		switch p {
		case 0:
			b[i] = xs[0]
		case 1:
			b[i] = xs[len(xs)-1]
		default:
			b[i] = s.Quantile(p)
		}
	}
	return b
}

// prettyBreaks uses round tick values covering the data range.
func prettyBreaks(xs []float64, n int) ([]float64, error) {
	lo, hi := xs[0], xs[len(xs)-1]
	lin := scale.Linear{Min: lo, Max: hi}
	major, _ := lin.Ticks(scale.TickOptions{Max: n + 1})
	if len(major) < 2 {
		return equalBreaks(xs, n)
	}
	step := major[1] - major[0]
	for major[0] > lo {
		major = append([]float64{major[0] - step}, major...)
	}
	for major[len(major)-1] < hi {
		major = append(major, major[len(major)-1]+step)
	}
	return major, nil
}

// sdBreaks places breaks one standard deviation apart, anchored on the
// mean, clipped to the data range.
func sdBreaks(xs []float64, _ int) ([]float64, error) {
	mean, sd := stats.Mean(xs), stats.StdDev(xs)
	if sd == 0 || math.IsNaN(sd) {
		return nil, eris.Wrap(ErrClassification, "classify: sd: zero standard deviation")
	}
	return spread(xs, mean, sd, 0), nil
}

// msdBreaks centres a class on the mean: breaks at mean ± (k+1/2)·sd.
func msdBreaks(xs []float64, _ int) ([]float64, error) {
	mean, sd := stats.Mean(xs), stats.StdDev(xs)
	if sd == 0 || math.IsNaN(sd) {
		return nil, eris.Wrap(ErrClassification, "classify: msd: zero standard deviation")
	}
	return spread(xs, mean, sd, 0.5), nil
}

func spread(xs []float64, mean, sd, shift float64) []float64 {
	lo, hi := xs[0], xs[len(xs)-1]
	kLo := math.Floor((lo-mean)/sd - shift)
	kHi := math.Ceil((hi-mean)/sd - shift)
	b := []float64{lo}
	for k := kLo; k <= kHi; k++ {
		v := mean + (k+shift)*sd
		if v > lo && v < hi {
			b = append(b, v)
		}
	}
	return append(b, hi)
}

func geomBreaks(xs []float64, n int) ([]float64, error) {
	lo, hi := xs[0], xs[len(xs)-1]
	if lo <= 0 {
		return nil, eris.Wrap(ErrClassification, "classify: geom: values must be strictly positive")
	}
	r := math.Pow(hi/lo, 1/float64(n))
	b := make([]float64, n+1)
	for i := range b {
		b[i] = lo * math.Pow(r, float64(i))
	}
	b[0], b[n] = lo, hi
	return b, nil
}

// arithBreaks grows class widths arithmetically: w, 2w, 3w...
func arithBreaks(xs []float64, n int) ([]float64, error) {
	lo, hi := xs[0], xs[len(xs)-1]
	unit := (hi - lo) / float64(n*(n+1)/2)
	b := make([]float64, n+1)
	b[0] = lo
	for i := 1; i <= n; i++ {
		b[i] = b[i-1] + float64(i)*unit
	}
	b[n] = hi
	return b, nil
}

// jenksBreaks is Fisher's exact optimisation of within-class variance.
func jenksBreaks(xs []float64, n int) ([]float64, error) {
	m := len(xs)
	if n > m {
		n = m
	}
	// lower[l][k]: 1-based index of the first value of class k in an
	// optimal split of xs[:l]; cost[l][k]: its within-class variance.
	lower := make([][]int, m+1)
	cost := make([][]float64, m+1)
	for l := range lower {
		lower[l] = make([]int, n+1)
		cost[l] = make([]float64, n+1)
		for k := 1; k <= n; k++ {
			cost[l][k] = math.Inf(1)
		}
	}
	for k := 1; k <= n; k++ {
		lower[1][k] = 1
		cost[1][k] = 0
	}
	for l := 2; l <= m; l++ {
		var s1, s2, w float64
		var v float64
		for i := 1; i <= l; i++ {
			lo := l - i + 1
			x := xs[lo-1]
			s2 += x * x
			s1 += x
			w++
			v = s2 - s1*s1/w
			if lo > 1 {
				for k := 2; k <= n; k++ {
					if c := v + cost[lo-1][k-1]; c <= cost[l][k] {
						lower[l][k] = lo
						cost[l][k] = c
					}
				}
			}
		}
		lower[l][1] = 1
		cost[l][1] = v
	}
	b := make([]float64, n+1)
	b[n] = xs[m-1]
	b[0] = xs[0]
	l := m
	for k := n; k >= 2; k-- {
		id := lower[l][k] - 1
		b[k-1] = xs[id]
		l = id
	}
	return b, nil
}

// headTailsBreaks splits repeatedly at the mean while the head (values
// above the mean) stays a minority.
func headTailsBreaks(xs []float64, _ int) ([]float64, error) {
	const thr = 0.4
	b := []float64{xs[0]}
	cur := xs
	for len(cur) > 1 {
		mean := stats.Mean(cur)
		var head []float64
		for _, x := range cur {
			if x > mean {
				head = append(head, x)
			}
		}
		b = append(b, mean)
		if len(head) == 0 || float64(len(head))/float64(len(cur)) > thr {
			break
		}
		cur = head
	}
	return append(b, xs[len(xs)-1]), nil
}

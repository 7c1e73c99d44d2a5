// Package stats characterizes a scalar observation sequence: grouped
// frequency histogram, descriptive statistics with confidence intervals and
// Pearson chi-square goodness-of-fit tests against candidate distributions.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/utils"
)

var ErrDegenerateSample = errors.New("degenerate sample")

const (
	// DefaultAlpha is the significance level used when none is configured.
	DefaultAlpha = 0.05

	sturgesFactor = 3.322
	minExpected   = 5. // smallest expected count a merged bin may carry
)

// Histogram is the grouped frequency model of the sample: len(Counts) ==
// len(Edges)-1, and the counts sum to N as long as no observation falls
// outside the outermost edges.
type Histogram struct {
	Edges     []float64
	Counts    []float64
	Midpoints []float64
	Width     float64
}

type Interval struct {
	Lo, Hi float64
}

// FitResult is the outcome of one Pearson test. ChiSquare is NaN when too few
// merged bins remain for the statistic to be defined; such a fit is never
// accepted.
type FitResult struct {
	Distribution string
	ChiSquare    float64
	DoF          int
	PValue       float64
	Accepted     bool
}

type Analysis struct {
	N        int
	Min, Max float64

	Histogram Histogram

	Mean, Variance, StdDev float64
	MeanCI, VarianceCI     Interval

	Normal, Exponential FitResult
}

// Analyze builds the histogram of observations by Sturges' rule and runs the
// full statistical characterization at significance alpha. A sample with no
// spread (or a single observation) cannot be grouped: ErrDegenerateSample.
func Analyze(observations []float64, alpha float64) (*Analysis, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrDegenerateSample)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("invalid significance level %g", alpha)
	}

	n := len(observations)
	lo, hi := utils.MinMax(observations)
	h := (hi - lo) / (1. + sturgesFactor*math.Log(float64(n)))
	if h <= 0 {
		return nil, fmt.Errorf("%w: interval step %g for %d observations in [%g, %g]", ErrDegenerateSample, h, n, lo, hi)
	}

	a := &Analysis{N: n, Min: lo, Max: hi}
	a.Histogram = makeHistogram(observations, lo, hi, h)

	// grouped moments: midpoints weighted by observed frequencies
	fN := float64(n)
	for i, mid := range a.Histogram.Midpoints {
		a.Mean += mid * a.Histogram.Counts[i]
	}
	a.Mean /= fN
	for i, mid := range a.Histogram.Midpoints {
		a.Variance += (mid - a.Mean) * (mid - a.Mean) * a.Histogram.Counts[i]
	}
	a.Variance /= fN - 1.
	a.StdDev = math.Sqrt(a.Variance)

	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: fN - 1.}
	margin := student.Quantile(1.-alpha/2.) * a.StdDev / math.Sqrt(fN)
	a.MeanCI = Interval{a.Mean - margin, a.Mean + margin}

	chi2 := distuv.ChiSquared{K: fN - 1.}
	a.VarianceCI = Interval{
		(fN - 1.) * a.Variance / chi2.Quantile(1.-alpha/2.),
		(fN - 1.) * a.Variance / chi2.Quantile(alpha / 2.),
	}

	normal := distuv.Normal{Mu: a.Mean, Sigma: a.StdDev}
	a.Normal = pearsonTest("Normal", a.Histogram, fN, normal.CDF, 2, alpha)

	exponential := distuv.Exponential{Rate: 1. / a.Mean}
	a.Exponential = pearsonTest("Exponential", a.Histogram, fN, exponential.CDF, 1, alpha)

	return a, nil
}

func makeHistogram(observations []float64, lo, hi, h float64) Histogram {
	var edges []float64
	for e := lo - h/2.; e < hi+1.5*h; e += h {
		edges = append(edges, e)
	}
	bins := len(edges) - 1
	counts := make([]float64, bins)
	for _, v := range observations {
		if v < edges[0] || v > edges[bins] {
			continue
		}
		k := int((v - edges[0]) / h)
		if k > bins-1 {
			k = bins - 1 // the upper edge belongs to the last bin
		}
		counts[k]++
	}
	mids := make([]float64, bins)
	for i := range mids {
		mids[i] = (edges[i] + edges[i+1]) / 2.
	}
	return Histogram{Edges: edges, Counts: counts, Midpoints: mids, Width: h}
}

// mergeBins accumulates adjacent observed/expected pairs until the expected
// count reaches minExpected, keeping the chi-square approximation valid. A
// trailing partial group is folded into the last completed one.
func mergeBins(observed, expected []float64) (obsM, expM []float64) {
	var cObs, cExp float64
	for i := range observed {
		cObs += observed[i]
		cExp += expected[i]
		if cExp >= minExpected {
			obsM = append(obsM, cObs)
			expM = append(expM, cExp)
			cObs, cExp = 0, 0
		}
	}
	if cExp > 0 && len(expM) > 0 {
		obsM[len(obsM)-1] += cObs
		expM[len(expM)-1] += cExp
	}
	return
}

func pearsonTest(name string, hist Histogram, n float64, cdf func(float64) float64, fittedParams int, alpha float64) FitResult {
	expected := make([]float64, len(hist.Counts))
	for i := range expected {
		expected[i] = n * (cdf(hist.Edges[i+1]) - cdf(hist.Edges[i]))
	}
	obs, exp := mergeBins(hist.Counts, expected)

	dof := len(exp) - 1 - fittedParams
	if dof < 1 {
		dof = 1
	}
	result := FitResult{Distribution: name, DoF: dof, ChiSquare: math.NaN(), PValue: math.NaN()}
	if len(exp) < fittedParams+1 {
		return result // statistic undefined, fit rejected by default
	}

	result.ChiSquare = 0
	for i := range exp {
		d := obs[i] - exp[i]
		result.ChiSquare += d * d / exp[i]
	}
	result.PValue = 1. - distuv.ChiSquared{K: float64(dof)}.CDF(result.ChiSquare)
	result.Accepted = result.PValue >= alpha
	return result
}

// Package profile samples the discrete radial reflectance profile at
// arbitrary distances with a shape-preserving monotone cubic and persists the
// sampled values for downstream tooling.
package profile

import (
	"fmt"
	"math"
	"sort"
)

// PCHIP is a piecewise cubic Hermite interpolant with Fritsch-Carlson
// slopes: it preserves monotonicity of the data and never overshoots.
// Queries strictly outside the knot range yield 0, not an extrapolation:
// values beyond the simulated grid are physically meaningless.
type PCHIP struct {
	xs, ys []float64
	slopes []float64
}

// Midpoints returns the radial bin midpoints i*dr - dr/2 for i = 1..nr.
func Midpoints(nr int, dr float64) []float64 {
	r := make([]float64, nr)
	for i := 1; i <= nr; i++ {
		r[i-1] = float64(i)*dr - dr/2.
	}
	return r
}

func NewPCHIP(xs, ys []float64) (*PCHIP, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("pchip: %d knots with %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("pchip: need at least 2 knots, got %d", len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("pchip: knots not strictly increasing at %d", i)
		}
	}

	n := len(xs)
	h := make([]float64, n-1)
	sec := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = xs[i+1] - xs[i]
		sec[i] = (ys[i+1] - ys[i]) / h[i]
	}

	d := make([]float64, n)
	for i := 1; i < n-1; i++ {
		if sec[i-1]*sec[i] <= 0 {
			continue // local extremum, keep the slope flat
		}
		w1 := 2.*h[i] + h[i-1]
		w2 := h[i] + 2.*h[i-1]
		d[i] = (w1 + w2) / (w1/sec[i-1] + w2/sec[i])
	}
	d[0] = edgeSlope(h[0], h[min(1, n-2)], sec[0], sec[min(1, n-2)])
	d[n-1] = edgeSlope(h[n-2], h[max(n-3, 0)], sec[n-2], sec[max(n-3, 0)])

	return &PCHIP{xs: xs, ys: ys, slopes: d}, nil
}

// edgeSlope is the one-sided three-point estimate with the monotonicity
// clamps of the shape-preserving scheme.
func edgeSlope(h0, h1, s0, s1 float64) float64 {
	d := ((2.*h0+h1)*s0 - h0*s1) / (h0 + h1)
	if math.Signbit(d) != math.Signbit(s0) || s0 == 0 {
		return 0
	}
	if math.Signbit(s0) != math.Signbit(s1) && math.Abs(d) > 3.*math.Abs(s0) {
		return 3. * s0
	}
	return d
}

// At evaluates the interpolant; x outside the knot range maps to 0.
func (p *PCHIP) At(x float64) float64 {
	n := len(p.xs)
	if x < p.xs[0] || x > p.xs[n-1] {
		return 0
	}
	k := sort.SearchFloat64s(p.xs, x)
	if k < n && p.xs[k] == x {
		return p.ys[k]
	}
	k-- // x lies in (xs[k], xs[k+1])

	h := p.xs[k+1] - p.xs[k]
	t := (x - p.xs[k]) / h
	t2 := t * t
	t3 := t2 * t
	h00 := 2.*t3 - 3.*t2 + 1.
	h10 := t3 - 2.*t2 + t
	h01 := -2.*t3 + 3.*t2
	h11 := t3 - t2
	return h00*p.ys[k] + h10*h*p.slopes[k] + h01*p.ys[k+1] + h11*h*p.slopes[k+1]
}

// Sample evaluates the radial profile (midpoints xs, values ys) at every
// query distance. Out-of-domain queries come back as 0.
func Sample(xs, ys, queries []float64) ([]float64, error) {
	interp, err := NewPCHIP(xs, ys)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(queries))
	for i, q := range queries {
		out[i] = interp.At(q)
	}
	return out, nil
}

// Queries builds the ordered distance sequence start, start+step, ... end
// (inclusive, arange-style with the end extended by one step).
func Queries(start, end, step float64) []float64 {
	var qs []float64
	for x := start; x < end+step; x += step {
		qs = append(qs, x)
	}
	return qs
}

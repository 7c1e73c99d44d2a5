// Package tissue describes the layered optical medium: refractive indices,
// absorption and scattering coefficients, anisotropy and geometry of every
// tissue layer, plus the grouping schemes that collapse the baseline brain
// model into fewer effective layers.
package tissue

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidStack = errors.New("invalid layer stack")

// Layer holds the optical properties of a single tissue layer together with
// its depth bounds and the cosine of the total internal reflection angle at
// its upper interface.
type Layer struct {
	N       float64 // refractive index
	Mua     float64 // absorption coefficient [cm^-1]
	Mus     float64 // scattering coefficient [cm^-1]
	G       float64 // anisotropy factor
	Z0, Z1  float64 // depth bounds [cm], Z0 < Z1
	CosCrit float64 // critical cosine at the interface above, 0 if none
}

// BuildStack assembles the ordered layer sequence from flat parameter arrays.
// n carries ambient-above, the layers, and ambient-below, so it must be two
// entries longer than d; every thickness must be strictly positive.
func BuildStack(n, mua, mus, g, d []float64) ([]Layer, error) {
	if len(n) != len(d)+2 {
		return nil, fmt.Errorf("%w: got %d refractive indices for %d layers, want %d", ErrInvalidStack, len(n), len(d), len(d)+2)
	}
	if len(mua) != len(d) || len(mus) != len(d) || len(g) != len(d) {
		return nil, fmt.Errorf("%w: mua/mus/g lengths %d/%d/%d do not match %d layers", ErrInvalidStack, len(mua), len(mus), len(g), len(d))
	}

	layers := make([]Layer, len(d))
	z := 0.
	for i := range d {
		if d[i] <= 0 {
			return nil, fmt.Errorf("%w: layer %d has non-positive thickness %g", ErrInvalidStack, i+1, d[i])
		}
		nAbove, nThis := n[i], n[i+1]
		cosCrit := 0.
		if nThis > nAbove {
			cosCrit = math.Sqrt(1. - (nAbove*nAbove)/(nThis*nThis))
		}
		layers[i] = Layer{
			N:       nThis,
			Mua:     mua[i],
			Mus:     mus[i],
			G:       g[i],
			Z0:      z,
			Z1:      z + d[i],
			CosCrit: cosCrit,
		}
		z += d[i]
	}
	return layers, nil
}

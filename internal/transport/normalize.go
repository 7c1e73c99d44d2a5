package transport

import (
	"fmt"
	"math"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/utils"
)

// Scaled is the physically scaled simulation output: full 2-D fields, reduced
// 1-D profiles and scalar totals. Totals are plain photon fractions, so
// Rd + Ab + Tt ~ 1 for an energy-conserving kernel.
type Scaled struct {
	RdRA [][]float64 // reflectance per unit area per unit solid angle
	AbRZ [][]float64 // absorption per unit volume
	TtRA [][]float64 // transmittance per unit area per unit solid angle

	RdR, RdA []float64
	AbR, AbZ []float64
	TtR, TtA []float64

	Rd, Ab, Tt float64
}

// Normalize converts raw per-bin photon weights into physical densities.
// The order of operations is fixed: per-photon normalization first, then the
// 1-D reductions and totals, and geometric rescaling last, so totals stay
// plain fractions of launched photons.
func Normalize(raw RawCounts, g Grid) (*Scaled, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	out := &Scaled{
		RdRA: utils.CopyGrid(raw.RdRA),
		AbRZ: utils.CopyGrid(raw.AbRZ),
		TtRA: utils.CopyGrid(raw.TtRA),
	}
	photons := float64(g.Photons)
	for _, grid := range [][][]float64{out.RdRA, out.AbRZ, out.TtRA} {
		for i := range grid {
			for j := range grid[i] {
				grid[i][j] /= photons
			}
		}
	}

	out.RdR, out.RdA = reduce(out.RdRA, g.Nr, g.Na)
	out.AbR, out.AbZ = reduce(out.AbRZ, g.Nr, g.Nz)
	out.TtR, out.TtA = reduce(out.TtRA, g.Nr, g.Na)

	out.Rd = utils.SumGrid(out.RdRA)
	out.Ab = utils.SumGrid(out.AbRZ)
	out.Tt = utils.SumGrid(out.TtRA)

	dr, da, dz := g.Dr, g.Da(), g.Dz

	// ring area x solid angle factor for the 2-D exit fields
	scale1 := 4. * math.Pi * math.Pi * dr * math.Sin(da/2.) * dr
	for i := 1; i <= g.Nr; i++ {
		for a := 1; a <= g.Na; a++ {
			denom := (float64(i) - 0.5) * math.Sin(2.*(float64(a)-0.5)*da) * scale1
			if !utils.FiniteNonZero(denom) {
				return nil, fmt.Errorf("%w: zero 2-D scale factor at r=%d a=%d", ErrDegenerateGrid, i, a)
			}
			out.RdRA[i-1][a-1] /= denom
			out.TtRA[i-1][a-1] /= denom
		}
	}

	scale1r := 2. * math.Pi * dr * dr
	for i := 1; i <= g.Nr; i++ {
		denom := (float64(i) - 0.5) * scale1r
		if !utils.FiniteNonZero(denom) {
			return nil, fmt.Errorf("%w: zero radial scale factor at r=%d", ErrDegenerateGrid, i)
		}
		out.RdR[i-1] /= denom
		out.TtR[i-1] /= denom
	}

	scale1a := 4. * math.Pi * math.Sin(da/2.)
	for a := 1; a <= g.Na; a++ {
		denom := math.Sin(float64(a)*da) * scale1a
		if !utils.FiniteNonZero(denom) {
			return nil, fmt.Errorf("%w: zero angular scale factor at a=%d", ErrDegenerateGrid, a)
		}
		out.RdA[a-1] /= denom
		out.TtA[a-1] /= denom
	}

	if !utils.FiniteNonZero(scale1a * dz) {
		return nil, fmt.Errorf("%w: zero absorption scale factor", ErrDegenerateGrid)
	}
	for i := 1; i <= g.Nr; i++ {
		for z := 0; z < g.Nz; z++ {
			out.AbRZ[i-1][z] /= float64(i) * scale1a * dz
		}
	}
	for z := 0; z < g.Nz; z++ {
		out.AbZ[z] /= dz
	}

	return out, nil
}

// reduce sums a (rows, cols) field along each axis.
func reduce(grid [][]float64, rows, cols int) (byRow, byCol []float64) {
	byRow = make([]float64, rows)
	byCol = make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			byRow[i] += grid[i][j]
			byCol[j] += grid[i][j]
		}
	}
	return
}

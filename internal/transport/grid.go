// Package transport holds the recording grid, the photon transport kernel
// and the normalization step that turns raw per-bin photon counts into
// physically scaled reflectance, absorption and transmittance.
package transport

import (
	"errors"
	"fmt"
	"math"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/tissue"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/utils"
)

var ErrDegenerateGrid = errors.New("degenerate recording grid")

// Grid describes the cylindrical recording grid: Nr radial rings of width Dr,
// Nz depth cells of height Dz and Na exit-angle bins covering [0, pi/2].
type Grid struct {
	Photons int     // photons launched
	Dz      float64 // depth step [cm]
	Dr      float64 // radial step [cm]
	Nz      int
	Nr      int
	Na      int
}

// Da is the angular step, derived so Na bins span a quarter circle.
func (g Grid) Da() float64 {
	return 0.5 * math.Pi / float64(g.Na)
}

func (g Grid) Validate() error {
	if g.Photons < 1 {
		return fmt.Errorf("%w: photon count %d", ErrDegenerateGrid, g.Photons)
	}
	if g.Nz < 1 || g.Nr < 1 || g.Na < 1 {
		return fmt.Errorf("%w: cell counts nz=%d nr=%d na=%d", ErrDegenerateGrid, g.Nz, g.Nr, g.Na)
	}
	if g.Dz <= 0 || g.Dr <= 0 {
		return fmt.Errorf("%w: steps dz=%g dr=%g", ErrDegenerateGrid, g.Dz, g.Dr)
	}
	return nil
}

// RawCounts are the unscaled per-bin photon weights a kernel records:
// reflectance and transmittance by (radius, exit angle), absorption by
// (radius, depth). The normalizer never mutates them.
type RawCounts struct {
	RdRA [][]float64 // (Nr, Na)
	AbRZ [][]float64 // (Nr, Nz)
	TtRA [][]float64 // (Nr, Na)
}

func NewRawCounts(g Grid) RawCounts {
	return RawCounts{
		RdRA: utils.MakeGrid(g.Nr, g.Na),
		AbRZ: utils.MakeGrid(g.Nr, g.Nz),
		TtRA: utils.MakeGrid(g.Nr, g.Na),
	}
}

func (rc RawCounts) add(other RawCounts) {
	utils.AddGrid(rc.RdRA, other.RdRA)
	utils.AddGrid(rc.AbRZ, other.AbRZ)
	utils.AddGrid(rc.TtRA, other.TtRA)
}

// Kernel produces raw counts for a grid and layer stack. Implementations must
// leave scaling to Normalize: recorded values are plain photon weights.
type Kernel interface {
	Trace(g Grid, layers []tissue.Layer) (RawCounts, error)
}

package transport

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/tissue"
)

const (
	weightThreshold = 1e-4
	rouletteChance  = 0.1
	uzNearVertical  = 0.99999
)

// PhotonKernel is a variance-reduced photon random walk through the layer
// stack: exponential step lengths, partial absorption at every interaction,
// Henyey-Greenstein scattering and Fresnel reflection at layer interfaces.
// Photon weights end up in exactly one of the three raw count grids, so the
// unscaled totals conserve energy.
type PhotonKernel struct {
	NAbove, NBelow float64 // ambient refractive indices, 1 if zero
	Seed           int64
	Threads        int
}

var _ Kernel = (*PhotonKernel)(nil)

type photon struct {
	x, y, z    float64
	ux, uy, uz float64
	w          float64
	layer      int
}

func (k *PhotonKernel) Trace(g Grid, layers []tissue.Layer) (RawCounts, error) {
	if err := g.Validate(); err != nil {
		return RawCounts{}, err
	}
	if len(layers) == 0 {
		return RawCounts{}, fmt.Errorf("%w: no layers to trace", tissue.ErrInvalidStack)
	}
	for i := range layers {
		if layers[i].Mua+layers[i].Mus <= 0 {
			return RawCounts{}, fmt.Errorf("%w: layer %d has no interaction coefficient", tissue.ErrInvalidStack, i+1)
		}
	}
	nAbove, nBelow := k.NAbove, k.NBelow
	if nAbove == 0 {
		nAbove = 1.
	}
	if nBelow == 0 {
		nBelow = 1.
	}
	threads := k.Threads
	if threads < 1 {
		threads = 1
	}

	// per-worker grids merged in worker order, so a given seed always
	// produces identical counts
	results := make([]RawCounts, threads)
	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		share := g.Photons / threads
		if t < g.Photons%threads {
			share++
		}
		wg.Add(1)
		go func(worker, photons int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(k.Seed + int64(worker)))
			counts := NewRawCounts(g)
			w := walker{grid: g, layers: layers, nAbove: nAbove, nBelow: nBelow, rng: rng, counts: counts}
			for p := 0; p < photons; p++ {
				w.trace()
			}
			results[worker] = counts
		}(t, share)
	}
	wg.Wait()

	total := NewRawCounts(g)
	for _, counts := range results {
		total.add(counts)
	}
	return total, nil
}

type walker struct {
	grid           Grid
	layers         []tissue.Layer
	nAbove, nBelow float64
	rng            *rand.Rand
	counts         RawCounts
}

// trace follows one photon from launch to termination.
func (w *walker) trace() {
	n1 := w.layers[0].N
	rsp := (w.nAbove - n1) * (w.nAbove - n1) / ((w.nAbove + n1) * (w.nAbove + n1))
	w.counts.RdRA[0][0] += rsp // specular part never scatters

	p := photon{uz: 1., w: 1. - rsp}
	for p.w > 0 {
		w.hop(&p)
		if p.w <= 0 {
			break
		}
		w.drop(&p)
		w.spin(&p)
		w.roulette(&p)
	}
}

// hop advances the photon by one free path, crossing interfaces on the way.
func (w *walker) hop(p *photon) {
	layer := &w.layers[p.layer]
	s := -math.Log(1.-w.rng.Float64()) / (layer.Mua + layer.Mus)
	for {
		layer = &w.layers[p.layer]
		if p.uz == 0 {
			w.move(p, s)
			return
		}
		var toBound float64
		if p.uz < 0 {
			toBound = (layer.Z0 - p.z) / p.uz
		} else {
			toBound = (layer.Z1 - p.z) / p.uz
		}
		if s <= toBound {
			w.move(p, s)
			return
		}
		w.move(p, toBound)
		s -= toBound
		mutOld := layer.Mua + layer.Mus
		if !w.cross(p) {
			return // photon left the stack
		}
		// remaining free path re-expressed with the coefficients of the
		// layer the photon continues in
		s *= mutOld / (w.layers[p.layer].Mua + w.layers[p.layer].Mus)
	}
}

func (w *walker) move(p *photon, s float64) {
	p.x += p.ux * s
	p.y += p.uy * s
	p.z += p.uz * s
}

// cross handles the interface the photon just reached. It reports false when
// the photon exited the stack (its weight recorded and zeroed).
func (w *walker) cross(p *photon) bool {
	layer := w.layers[p.layer]
	up := p.uz < 0
	cosI := math.Abs(p.uz)

	var n2 float64
	if up {
		if p.layer == 0 {
			n2 = w.nAbove
		} else {
			n2 = w.layers[p.layer-1].N
		}
	} else {
		if p.layer == len(w.layers)-1 {
			n2 = w.nBelow
		} else {
			n2 = w.layers[p.layer+1].N
		}
	}

	r, cosT := fresnel(layer.N, n2, cosI)
	if w.rng.Float64() < r {
		p.uz = -p.uz
		return true
	}

	ratio := layer.N / n2
	p.ux *= ratio
	p.uy *= ratio
	if up {
		p.uz = -cosT
		if p.layer == 0 {
			w.record(w.counts.RdRA, p, cosT)
			p.w = 0
			return false
		}
		p.layer--
	} else {
		p.uz = cosT
		if p.layer == len(w.layers)-1 {
			w.record(w.counts.TtRA, p, cosT)
			p.w = 0
			return false
		}
		p.layer++
	}
	return true
}

// drop deposits the absorbed share of the weight into the absorption grid.
func (w *walker) drop(p *photon) {
	layer := w.layers[p.layer]
	dw := p.w * layer.Mua / (layer.Mua + layer.Mus)
	ir := w.radialBin(p)
	iz := int(p.z / w.grid.Dz)
	if iz > w.grid.Nz-1 {
		iz = w.grid.Nz - 1 // overflow collects in the last cell
	}
	if iz < 0 {
		iz = 0
	}
	w.counts.AbRZ[ir][iz] += dw
	p.w -= dw
}

// spin samples a Henyey-Greenstein deflection and rotates the direction.
func (w *walker) spin(p *photon) {
	g := w.layers[p.layer].G
	var cost float64
	if g == 0 {
		cost = 2.*w.rng.Float64() - 1.
	} else {
		t := (1. - g*g) / (1. - g + 2.*g*w.rng.Float64())
		cost = (1. + g*g - t*t) / (2. * g)
	}
	sint := math.Sqrt(1. - cost*cost)
	phi := 2. * math.Pi * w.rng.Float64()
	cosp, sinp := math.Cos(phi), math.Sin(phi)

	if math.Abs(p.uz) > uzNearVertical {
		p.ux = sint * cosp
		p.uy = sint * sinp
		p.uz = cost * math.Copysign(1., p.uz)
		return
	}
	temp := math.Sqrt(1. - p.uz*p.uz)
	ux := sint*(p.ux*p.uz*cosp-p.uy*sinp)/temp + p.ux*cost
	uy := sint*(p.uy*p.uz*cosp+p.ux*sinp)/temp + p.uy*cost
	uz := -sint*cosp*temp + p.uz*cost
	p.ux, p.uy, p.uz = ux, uy, uz
}

func (w *walker) roulette(p *photon) {
	if p.w >= weightThreshold || p.w <= 0 {
		return
	}
	if w.rng.Float64() < rouletteChance {
		p.w /= rouletteChance
	} else {
		p.w = 0
	}
}

func (w *walker) record(grid [][]float64, p *photon, cosExit float64) {
	ir := w.radialBin(p)
	ia := int(math.Acos(cosExit) / w.grid.Da())
	if ia > w.grid.Na-1 {
		ia = w.grid.Na - 1
	}
	grid[ir][ia] += p.w
}

func (w *walker) radialBin(p *photon) int {
	ir := int(math.Sqrt(p.x*p.x+p.y*p.y) / w.grid.Dr)
	if ir > w.grid.Nr-1 {
		ir = w.grid.Nr - 1
	}
	return ir
}

// fresnel returns the unpolarized reflectance and the transmitted direction
// cosine for a photon hitting an interface with incidence cosine cosI.
func fresnel(n1, n2 float64, cosI float64) (r, cosT float64) {
	if n1 == n2 {
		return 0, cosI
	}
	if cosI < 1e-6 {
		return 1., 0 // grazing incidence
	}
	sinI := math.Sqrt(1. - cosI*cosI)
	sinT := n1 * sinI / n2
	if sinT >= 1. {
		return 1., 0 // total internal reflection
	}
	cosT = math.Sqrt(1. - sinT*sinT)
	if cosI == 1. {
		t := (n2 - n1) / (n2 + n1)
		return t * t, cosT
	}
	cosSum, cosDif := cosI*cosT-sinI*sinT, cosI*cosT+sinI*sinT
	sinSum, sinDif := sinI*cosT+cosI*sinT, sinI*cosT-cosI*sinT
	r = 0.5 * sinDif * sinDif * (cosSum*cosSum + cosDif*cosDif) / (sinSum * sinSum * cosDif * cosDif)
	return r, cosT
}

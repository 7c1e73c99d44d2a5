package tissue

import (
	"fmt"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/utils"
)

// Input is the flat parameter set the config layer produces: ambient media at
// both ends of N, one entry per layer everywhere else.
type Input struct {
	N   []float64
	Mua []float64
	Mus []float64
	G   []float64
	D   []float64
}

// Scheme selects how the baseline four-layer model is grouped into effective
// layers. Schemes are validated when parsed, never inferred from display
// strings at use time.
type Scheme int

const (
	Baseline Scheme = iota
	OneLayer
	TwoTwo
	OneThree
	ThreeOne
	OneOneTwo
	OneTwoOne
	TwoOneOne
)

var schemeNames = map[Scheme]string{
	Baseline:  "Baseline",
	OneLayer:  "1-Layer",
	TwoTwo:    "2-Layer (2-2)",
	OneThree:  "2-Layer (1-3)",
	ThreeOne:  "2-Layer (3-1)",
	OneOneTwo: "3-Layer (1-1-2)",
	OneTwoOne: "3-Layer (1-2-1)",
	TwoOneOne: "3-Layer (2-1-1)",
}

// schemeGroups maps each scheme to the sizes of consecutive layer groups; the
// sizes of every scheme sum to the baseline layer count.
var schemeGroups = map[Scheme][]int{
	Baseline:  {1, 1, 1, 1},
	OneLayer:  {4},
	TwoTwo:    {2, 2},
	OneThree:  {1, 3},
	ThreeOne:  {3, 1},
	OneOneTwo: {1, 1, 2},
	OneTwoOne: {1, 2, 1},
	TwoOneOne: {2, 1, 1},
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if n == name {
			return s, nil
		}
	}
	return Baseline, fmt.Errorf("unknown aggregation scheme %q", name)
}

// Aggregate collapses the baseline layers of in according to the scheme:
// group refractive indices, absorption, scattering and anisotropy are
// averaged, thicknesses are summed. Baseline returns in unchanged.
func Aggregate(in Input, s Scheme) (Input, error) {
	if s == Baseline {
		return in, nil // identity for any layer count
	}
	groups, ok := schemeGroups[s]
	if !ok {
		return Input{}, fmt.Errorf("unknown aggregation scheme %v", s)
	}
	base := 0
	for _, size := range groups {
		base += size
	}
	if base != len(in.D) {
		return Input{}, fmt.Errorf("scheme %v groups %d layers, input has %d", s, base, len(in.D))
	}

	out := Input{N: []float64{in.N[0]}}
	offset := 0
	for _, size := range groups {
		out.N = append(out.N, utils.Average(in.N[1+offset:1+offset+size]))
		out.Mua = append(out.Mua, utils.Average(in.Mua[offset:offset+size]))
		out.Mus = append(out.Mus, utils.Average(in.Mus[offset:offset+size]))
		out.G = append(out.G, utils.Average(in.G[offset:offset+size]))
		out.D = append(out.D, utils.SumSlice(in.D[offset:offset+size]))
		offset += size
	}
	out.N = append(out.N, in.N[len(in.N)-1])
	return out, nil
}

// Schemes lists every aggregation scheme in display order.
func Schemes() []Scheme {
	return []Scheme{Baseline, OneLayer, TwoTwo, OneThree, ThreeOne, OneOneTwo, OneTwoOne, TwoOneOne}
}

// Package config loads TOML run configurations: one model table per
// simulation run, global output settings and the reference brain model as the
// default for anything left unspecified.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/tissue"
)

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
}

type ModelParameters struct {
	Scheme  string // aggregation scheme display name
	Photons int
	Dz      float64 // [cm]
	Dr      float64 // [cm]
	Nz      int
	Nr      int
	Na      int

	N   []float64 // ambient above, layers, ambient below
	Mua []float64 // [cm^-1]
	Mus []float64 // [cm^-1]
	G   []float64
	D   []float64 // [cm]

	AnalysisStart float64 // [cm]
	AnalysisEnd   float64 // [cm]
	AnalysisStep  float64 // [cm]
	Alpha         float64

	Seed    int64
	Threads int
	MakeDir bool

	scheme tissue.Scheme
}

func (p *ModelParameters) AggregationScheme() tissue.Scheme {
	return p.scheme
}

func (p *ModelParameters) TissueInput() tissue.Input {
	return tissue.Input{N: p.N, Mua: p.Mua, Mus: p.Mus, G: p.G, D: p.D}
}

// Reference four-layer brain model, used for any parameter a model table does
// not define.
var defaults = ModelParameters{
	Scheme:  "Baseline",
	Photons: 50000,
	Dz:      0.2,
	Dr:      0.2,
	Nz:      10,
	Nr:      20,
	Na:      30,

	N:   []float64{1.0, 1.37, 1.43, 1.33, 1.37, 1.0},
	Mua: []float64{0.018, 0.016, 0.004, 0.036},
	Mus: []float64{19.0, 16.0, 2.4, 22.0},
	G:   []float64{0.9, 0.9, 0.9, 0.9},
	D:   []float64{0.3, 0.5, 0.2, 0.4},

	AnalysisStart: 0.5,
	AnalysisEnd:   3.5,
	AnalysisStep:  0.05,
	Alpha:         0.05,

	Seed:    1,
	Threads: 1,
	MakeDir: false,
}

// Load reads the configuration file (".toml" suffix optional), fills model
// defaults and validates every aggregation scheme up front.
func Load(configFileName string) (Config, error) {
	configFileName = strings.TrimSuffix(configFileName, ".toml")

	var config Config
	meta, err := toml.DecodeFile(configFileName+".toml", &config)
	if err != nil {
		return Config{}, err
	}
	if len(config.Models) == 0 {
		return Config{}, fmt.Errorf("no models provided in %s.toml", configFileName)
	}

	for modelName, parameters := range config.Models {
		fillDefaults(modelName, &parameters, &meta)
		scheme, err := tissue.ParseScheme(parameters.Scheme)
		if err != nil {
			return Config{}, fmt.Errorf("model %s: %w", modelName, err)
		}
		parameters.scheme = scheme
		if parameters.AnalysisStep <= 0 {
			return Config{}, fmt.Errorf("model %s: non-positive analysis step %g", modelName, parameters.AnalysisStep)
		}
		config.Models[modelName] = parameters
	}
	return config, nil
}

func fillDefaults(modelName string, p *ModelParameters, meta *toml.MetaData) {
	defined := func(field string) bool {
		return meta.IsDefined("Models", modelName, field)
	}
	if !defined("Scheme") {
		p.Scheme = defaults.Scheme
	}
	if !defined("Photons") {
		p.Photons = defaults.Photons
	}
	if !defined("Dz") {
		p.Dz = defaults.Dz
	}
	if !defined("Dr") {
		p.Dr = defaults.Dr
	}
	if !defined("Nz") {
		p.Nz = defaults.Nz
	}
	if !defined("Nr") {
		p.Nr = defaults.Nr
	}
	if !defined("Na") {
		p.Na = defaults.Na
	}
	if !defined("N") {
		p.N = defaults.N
	}
	if !defined("Mua") {
		p.Mua = defaults.Mua
	}
	if !defined("Mus") {
		p.Mus = defaults.Mus
	}
	if !defined("G") {
		p.G = defaults.G
	}
	if !defined("D") {
		p.D = defaults.D
	}
	if !defined("AnalysisStart") {
		p.AnalysisStart = defaults.AnalysisStart
	}
	if !defined("AnalysisEnd") {
		p.AnalysisEnd = defaults.AnalysisEnd
	}
	if !defined("AnalysisStep") {
		p.AnalysisStep = defaults.AnalysisStep
	}
	if !defined("Alpha") {
		p.Alpha = defaults.Alpha
	}
	if !defined("Seed") {
		p.Seed = defaults.Seed
	}
	if !defined("Threads") {
		p.Threads = defaults.Threads
	}
	if !defined("MakeDir") {
		p.MakeDir = defaults.MakeDir
	}
}

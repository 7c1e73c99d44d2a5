package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/tissue"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
[Models.baseline]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := cfg.Models["baseline"]
	if !ok {
		t.Fatal("model missing")
	}
	if p.Photons != 50000 || p.Nr != 20 || p.Na != 30 || p.Nz != 10 {
		t.Errorf("grid defaults not applied: %+v", p)
	}
	if p.Dr != 0.2 || p.Dz != 0.2 {
		t.Errorf("step defaults not applied: %+v", p)
	}
	if len(p.N) != 6 || len(p.D) != 4 {
		t.Errorf("tissue defaults not applied: %+v", p)
	}
	if p.AggregationScheme() != tissue.Baseline {
		t.Errorf("scheme = %v, want Baseline", p.AggregationScheme())
	}
	if p.Alpha != 0.05 || p.AnalysisStep != 0.05 {
		t.Errorf("analysis defaults not applied: %+v", p)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
[Models.coarse]
Scheme = "2-Layer (1-3)"
Photons = 1000
Nr = 5
Dr = 0.5
Alpha = 0.01
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Models["coarse"]
	if p.Photons != 1000 || p.Nr != 5 || p.Dr != 0.5 || p.Alpha != 0.01 {
		t.Errorf("explicit values overridden: %+v", p)
	}
	if p.AggregationScheme() != tissue.OneThree {
		t.Errorf("scheme = %v, want 2-Layer (1-3)", p.AggregationScheme())
	}
	// untouched fields still come from the reference model
	if p.Na != 30 || p.Photons == 50000 {
		t.Errorf("defaults misapplied: %+v", p)
	}
}

func TestLoadRejectsUnknownScheme(t *testing.T) {
	path := writeConfig(t, `
[Models.bad]
Scheme = "5-Layer (oops)"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown scheme accepted at load time")
	}
}

func TestLoadRejectsEmptyConfig(t *testing.T) {
	path := writeConfig(t, `OutputDir = "out"`)
	if _, err := Load(path); err == nil {
		t.Fatal("config without models accepted")
	}
}

func TestLoadRejectsBadStep(t *testing.T) {
	path := writeConfig(t, `
[Models.bad]
AnalysisStep = -0.1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("negative analysis step accepted")
	}
}

func TestLoadTrimsTomlSuffix(t *testing.T) {
	path := writeConfig(t, `
[Models.m]
`)
	if _, err := Load(path); err != nil {
		t.Fatalf("load with suffix: %v", err)
	}
}

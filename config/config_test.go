package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Boids.Count <= 0 {
		t.Errorf("default boid count = %d, want positive", cfg.Boids.Count)
	}
	if cfg.World.Scale <= 0 {
		t.Errorf("default scale = %v, want positive", cfg.World.Scale)
	}
	if cfg.Sim.DT <= 0 {
		t.Errorf("default dt = %v, want positive", cfg.Sim.DT)
	}
	if cfg.Sim.Strategy == "" {
		t.Error("default strategy missing")
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	maxR := cfg.Rules.CohesionRadius
	if cfg.Rules.SeparationRadius > maxR {
		maxR = cfg.Rules.SeparationRadius
	}
	if cfg.Rules.AlignmentRadius > maxR {
		maxR = cfg.Rules.AlignmentRadius
	}

	if cfg.Derived.MaxRadius != maxR {
		t.Errorf("Derived.MaxRadius = %v, want %v", cfg.Derived.MaxRadius, maxR)
	}
	if cfg.Derived.CellWidth != 2*maxR {
		t.Errorf("Derived.CellWidth = %v, want %v", cfg.Derived.CellWidth, 2*maxR)
	}
	if cfg.Derived.DT32 != float32(cfg.Sim.DT) {
		t.Errorf("Derived.DT32 = %v, want %v", cfg.Derived.DT32, float32(cfg.Sim.DT))
	}
	if cfg.Derived.Scale32 != float32(cfg.World.Scale) {
		t.Errorf("Derived.Scale32 = %v, want %v", cfg.Derived.Scale32, float32(cfg.World.Scale))
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("boids:\n  count: 123\nrules:\n  alignment_radius: 9.0\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Boids.Count != 123 {
		t.Errorf("count = %d, want override 123", cfg.Boids.Count)
	}
	if cfg.Rules.AlignmentRadius != 9.0 {
		t.Errorf("alignment radius = %v, want override 9.0", cfg.Rules.AlignmentRadius)
	}
	// Untouched fields keep defaults.
	if cfg.World.Scale <= 0 {
		t.Errorf("scale lost its default: %v", cfg.World.Scale)
	}
	// Derived values reflect the override.
	if cfg.Derived.MaxRadius != 9.0 {
		t.Errorf("Derived.MaxRadius = %v, want 9.0", cfg.Derived.MaxRadius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load accepted a missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Boids.Count = 777

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load round trip: %v", err)
	}
	if loaded.Boids.Count != 777 {
		t.Errorf("round-tripped count = %d, want 777", loaded.Boids.Count)
	}
}

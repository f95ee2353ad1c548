package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxSteps != DefaultMaxSteps {
		t.Errorf("expected max steps %d, got %d", DefaultMaxSteps, cfg.MaxSteps)
	}
	if cfg.Params == nil {
		t.Error("params should be initialised")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("polytrope", "book")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["n"] != 1.5 {
		t.Errorf("expected n 1.5, got %f", cfg.Params["n"])
	}

	cfg.Params["n"] = 3
	if Presets["polytrope"]["book"].Params["n"] != 1.5 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("polytrope", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "book")
	if cfg != nil {
		t.Error("expected nil for nonexistent chapter")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("threebody")
	if len(presets) != 7 {
		t.Errorf("expected 7 three-body presets, got %d", len(presets))
	}
	if presets[0] != "hilda" {
		t.Errorf("presets should be sorted, got %v", presets)
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent chapter")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for chapter, presets := range Presets {
		for name, cfg := range presets {
			if cfg.Chapter != chapter {
				t.Errorf("%s/%s: chapter field is %q", chapter, name, cfg.Chapter)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", chapter, name, err)
			}
		}
	}
}

func TestValues(t *testing.T) {
	cfg := &Config{Chapter: "universe", Params: map[string]float64{"sigma": 0.35}}
	values, missing := cfg.Values([]string{"sigma", "q"})
	if values[0] != 0.35 {
		t.Errorf("unexpected values %v", values)
	}
	if len(missing) != 1 || missing[0] != "q" {
		t.Errorf("expected q missing, got %v", missing)
	}
}

func TestMerge(t *testing.T) {
	cfg := &Config{Chapter: "universe", Params: map[string]float64{"sigma": 1}}
	cfg.Merge(GetPreset("universe", "open"))

	if cfg.Params["sigma"] != 1 {
		t.Error("existing values must win")
	}
	if cfg.Params["q"] != 0.35 {
		t.Error("missing values must come from the base")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Chapter: "comet"}, false},
		{"no chapter", Config{}, true},
		{"bad integrator", Config{Chapter: "comet", Integrator: "verlet"}, true},
		{"known integrator", Config{Chapter: "comet", Integrator: "heun"}, false},
		{"negative steps", Config{Chapter: "comet", MaxSteps: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("whitedwarf", "book")
	cfg.Integrator = "rk4"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Chapter != "whitedwarf" || loaded.Integrator != "rk4" {
		t.Errorf("unexpected config %+v", loaded)
	}
	if loaded.Params["logrho"] != 8 || loaded.Params["dr"] != 80 {
		t.Errorf("params lost: %v", loaded.Params)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("integrator: rk4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for config without chapter")
	}
}

package config

import "sort"

// Presets reproduce the worked examples of the book.
var Presets = map[string]map[string]*Config{
	"comet": {
		"book": {Chapter: "comet", Params: map[string]float64{
			"perihelion": 0.5, "eccentricity": 0.95, "mu": 1, "outflow": 0.03,
		}},
	},
	"meteor": {
		"table-3-1": {Chapter: "meteor", Params: map[string]float64{
			"height": 160, "horizontal": 20, "vertical": 40, "mass": 0.01,
			"k1": 1, "k2": 1.1e-11, "tau": 0.02,
		}},
	},
	"polytrope": {
		"book": {Chapter: "polytrope", Params: map[string]float64{
			"n": 1.5, "dx": 0.05, "mass": 2, "radius": 3,
		}},
		"sun": {Chapter: "polytrope", Params: map[string]float64{
			"n": 3, "dx": 0.05, "mass": 1, "radius": 1,
		}},
	},
	"stellar-model": {
		"two-solar": {Chapter: "stellar-model", Params: map[string]float64{"mass": 2}},
		"ten-solar": {Chapter: "stellar-model", Params: map[string]float64{"mass": 10}},
	},
	"atmosphere": {
		"book": {Chapter: "atmosphere", Params: map[string]float64{
			"teff": 10000, "logg": 4, "mu": 1.048,
		}},
	},
	"whitedwarf": {
		"book": {Chapter: "whitedwarf", Params: map[string]float64{"logrho": 8, "dr": 80}},
	},
	"galactic-orbit": {
		"book": {Chapter: "galactic-orbit", Params: map[string]float64{
			"r": 10, "z": 0, "u": 0, "v": 150, "vt": 180,
		}},
	},
	"threebody": {
		"orbit-a":         threeBody(0.000953875, -0.509046125, 0.883345912, 0.0258975212, 0.0149272418, 0.4),
		"orbit-b":         threeBody(0.000953875, -0.524046125, 0.909326674, 0.0646761399, 0.0367068277, 0.4),
		"orbit-c":         threeBody(0.0121396054, -0.4978603946, 0.8833459119, 0.0265752203, 0.0146709149, 0.4),
		"orbit-d":         threeBody(0.0121396054, -0.5128603946, 0.9093266740, 0.0682722747, 0.0334034039, 0.4),
		"hilda":           threeBody(0.000953875, -0.647717531, 0, 0, -0.6828143998, 0.02),
		"hilda-realistic": threeBody(0.000953875, -0.4952265404, -0.4163448036, 0.4389046359, -0.5230661767, 0.05),
		"pluto":           threeBody(0.0000525, -0.6073955952, -0.7774968265, 0.1083342234, -0.08463997159, 0.05),
	},
	"equipotential": {
		"book": {Chapter: "equipotential", Params: map[string]float64{
			"mu": 0.4, "x": 1.05, "y": 0, "direction": 2, "step": 0.05,
		}},
	},
	"parallax": {
		"alpha-centauri": {Chapter: "parallax", Params: map[string]float64{
			"period": 78.8, "separation": 17.6, "mv1": 0.3, "mv2": 1.7, "bc1": 0.06, "bc2": 0.3,
		}},
	},
	"starformation": {
		"book": {Chapter: "starformation", Params: map[string]float64{
			"m": 0.15, "a": 0.1, "n": 1, "k1": 10, "k2": 2.5,
		}},
	},
	"universe": {
		"open":   {Chapter: "universe", Params: map[string]float64{"sigma": 0.35, "q": 0.35}},
		"closed": {Chapter: "universe", Params: map[string]float64{"sigma": 1.5, "q": 1.5}},
	},
}

func threeBody(mu, x, y, u, v, dt float64) *Config {
	return &Config{Chapter: "threebody", Params: map[string]float64{
		"mu": mu, "x": x, "y": y, "u": u, "v": v, "dt": dt,
	}}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(chapter, preset string) *Config {
	chapterPresets, ok := Presets[chapter]
	if !ok {
		return nil
	}
	cfg, ok := chapterPresets[preset]
	if !ok {
		return nil
	}
	cp := *cfg
	cp.Params = make(map[string]float64, len(cfg.Params))
	for k, v := range cfg.Params {
		cp.Params[k] = v
	}
	return &cp
}

func ListPresets(chapter string) []string {
	chapterPresets, ok := Presets[chapter]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(chapterPresets))
	for name := range chapterPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

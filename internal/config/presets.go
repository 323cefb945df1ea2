package config

import "sort"

var Presets = map[string]map[string]*Config{
	"lens": {
		"classic": {
			Scene: "lens", Width: 800, Height: 800, Frames: 600, Scale: 1,
			Trail: "clear", Background: "#000000", Fade: DefaultFade,
			Params: map[string]float64{"radius": 50},
		},
		"swarm": {
			Scene: "lens", Width: 800, Height: 800, Frames: 600, Scale: 1,
			Trail: "clear", Background: "#000000", Fade: DefaultFade,
			Params: map[string]float64{"radius": 20},
		},
	},
	"coherence": {
		"classic": {
			Scene: "coherence", Width: 400, Height: 400, Frames: 2000, Scale: 2,
			Trail: "clear", Background: "#ffffff", Fade: DefaultFade,
			Params: map[string]float64{"cell": 4},
		},
		"coarse": {
			Scene: "coherence", Width: 400, Height: 400, Frames: 2000, Scale: 2,
			Trail: "clear", Background: "#ffffff", Fade: DefaultFade,
			Params: map[string]float64{"cell": 10},
		},
	},
	"core": {
		"classic": {
			Scene: "core", Width: 800, Height: 800, Frames: 900, Scale: 1,
			Trail: "fade", Background: "#000000", Fade: "#0000000f",
		},
		"smear": {
			Scene: "core", Width: 800, Height: 800, Frames: 900, Scale: 1,
			Trail: "fade", Background: "#000000", Fade: "#00000005",
		},
	},
	"heatmap": {
		"classic": {
			Scene: "heatmap", Width: 388, Height: 388, Frames: 0, Scale: 1,
			Trail: "clear", Background: "#ffffff", Fade: DefaultFade,
			Params: map[string]float64{"cell": 20, "gap": 4},
		},
		"compact": {
			Scene: "heatmap", Width: 196, Height: 196, Frames: 0, Scale: 2,
			Trail: "clear", Background: "#ffffff", Fade: DefaultFade,
			Params: map[string]float64{"cell": 10, "gap": 2},
		},
	},
	"overlay": {
		"classic": {
			Scene: "overlay", Width: 800, Height: 800, Frames: 1, Scale: 1,
			Trail: "clear", Background: "#000000", Fade: DefaultFade,
			Params: map[string]float64{"alpha": 85},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	if cfg.Params != nil {
		out.Params = make(map[string]float64, len(cfg.Params))
		for k, v := range cfg.Params {
			out.Params[k] = v
		}
	}
	return &out
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

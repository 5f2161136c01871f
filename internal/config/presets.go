package config

import (
	"sort"

	"github.com/san-kum/chaosplot/internal/physics"
)

var (
	ac7         = physics.NewAC7()
	rabbitFoxes = physics.NewRabbitFoxes()
	stdPalette  = PaletteConfig{Name: DefaultPalette, Steps: DefaultPaletteSteps}
)

var Presets = map[string]*Config{
	"ac7": {
		Model: "ac7", Step: 0.05, Iterations: 14801, FlushInterval: 500,
		InitState: ac7.DefaultState(),
		Graph:     GraphConfig{OriginX: 0.94, OriginY: 1.38, SpanX: 2.48, SpanY: 2.77},
		Palette:   stdPalette,
		Traces:    traces(ac7.Trace()),
	},
	"rabbit_foxes": {
		Model: "rabbit_foxes", Step: 0.05, Iterations: 30206, FlushInterval: 500,
		InitState: rabbitFoxes.DefaultState(),
		Graph:     GraphConfig{OriginX: 4.23, OriginY: 8.28, SpanX: 9.07, SpanY: 12.39},
		Palette:   stdPalette,
		Traces:    traces(rabbitFoxes.Trace()),
	},
	"rabbit_foxes_all": {
		Model: "rabbit_foxes", Step: 0.05, Iterations: 30206, FlushInterval: 500,
		InitState: rabbitFoxes.DefaultState(),
		Graph:     GraphConfig{OriginX: 4.23, OriginY: 8.28, SpanX: 9.07, SpanY: 12.39},
		Palette:   stdPalette,
		Traces:    traces(rabbitFoxes.Bodies()),
	},
}

func traces(pairs [][2]int) []TraceConfig {
	out := make([]TraceConfig, len(pairs))
	for i, p := range pairs {
		out[i] = TraceConfig{X: p[0], Y: p[1]}
	}
	return out
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListModels lists the models the presets are built on.
func ListModels() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cfg := range Presets {
		if !seen[cfg.Model] {
			seen[cfg.Model] = true
			names = append(names, cfg.Model)
		}
	}
	sort.Strings(names)
	return names
}

func knownModel(name string) bool {
	for _, cfg := range Presets {
		if cfg.Model == name {
			return true
		}
	}
	return false
}

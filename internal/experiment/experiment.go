package experiment

import (
	"fmt"

	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

// BuildPlot turns a plot config into a runnable sim.Plot fitted to a
// width x height surface.
func BuildPlot(reg *Registry, name string, cfg *config.Config, width, height int) (sim.Plot, error) {
	if err := cfg.Validate(); err != nil {
		return sim.Plot{}, fmt.Errorf("plot %s: %w", name, err)
	}
	if width <= 0 || height <= 0 {
		return sim.Plot{}, fmt.Errorf("plot %s: surface size must be positive, got %dx%d", name, width, height)
	}

	sys, err := reg.GetModel(cfg.Model)
	if err != nil {
		return sim.Plot{}, err
	}
	if len(cfg.Params) > 0 {
		c, ok := sys.(dynamo.Configurable)
		if !ok {
			return sim.Plot{}, fmt.Errorf("plot %s: model %s has no parameters", name, cfg.Model)
		}
		for k, v := range cfg.Params {
			if err := c.SetParam(k, v); err != nil {
				return sim.Plot{}, fmt.Errorf("plot %s: %w", name, err)
			}
		}
	}

	palette, err := buildPalette(cfg.Palette)
	if err != nil {
		return sim.Plot{}, fmt.Errorf("plot %s: %w", name, err)
	}

	traces := make([]sim.Trace, len(cfg.Traces))
	for i, tr := range cfg.Traces {
		traces[i] = sim.Trace{X: tr.X, Y: tr.Y}
	}

	g := cfg.Graph
	plot := sim.Plot{
		Name:          name,
		System:        sys,
		Init:          dynamo.State(cfg.InitState).Clone(),
		Graph:         viz.FitGraph(g.OriginX, g.SpanX, g.OriginY, g.SpanY, width, height),
		Palette:       palette,
		Step:          cfg.Step,
		Iterations:    cfg.Iterations,
		FlushInterval: cfg.FlushInterval,
		Traces:        traces,
	}
	if err := plot.Validate(); err != nil {
		return sim.Plot{}, err
	}
	return plot, nil
}

func buildPalette(pc config.PaletteConfig) (*viz.Palette, error) {
	if len(pc.Anchors) == 0 {
		return viz.NamedPalette(pc.Name, pc.Steps)
	}
	anchors := make([]viz.Color, len(pc.Anchors))
	for i, s := range pc.Anchors {
		c, err := viz.ParseHex(s)
		if err != nil {
			return nil, err
		}
		anchors[i] = c
	}
	return viz.NewPalette(pc.Steps, anchors...)
}

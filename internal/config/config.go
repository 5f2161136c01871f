package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 800
	DefaultStep          = 0.05
	DefaultFlushInterval = 500
	DefaultPalette       = "std"
	DefaultPaletteSteps  = 256
)

// Config describes one plot: which model to integrate, from where, for how
// long, and how to map and color it.
type Config struct {
	Model         string             `yaml:"model"`
	Step          float64            `yaml:"step"`
	Iterations    int                `yaml:"iterations"`
	FlushInterval int                `yaml:"flush_interval"`
	InitState     []float64          `yaml:"init_state"`
	Params        map[string]float64 `yaml:"params,omitempty"`
	Graph         GraphConfig        `yaml:"graph"`
	Palette       PaletteConfig      `yaml:"palette"`
	Traces        []TraceConfig      `yaml:"traces"`
}

// GraphConfig places the origin and fits span simulation units across the
// surface.
type GraphConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	SpanX   float64 `yaml:"span_x"`
	SpanY   float64 `yaml:"span_y"`
}

type PaletteConfig struct {
	Name    string   `yaml:"name"`
	Steps   int      `yaml:"steps"`
	Anchors []string `yaml:"anchors,omitempty"`
}

type TraceConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Step:          DefaultStep,
		FlushInterval: DefaultFlushInterval,
		Palette: PaletteConfig{
			Name:  DefaultPalette,
			Steps: DefaultPaletteSteps,
		},
	}
}

// Load reads a plot from yaml. Fields missing from the file fall back to the
// preset named by its model, or to DefaultConfig when there is none.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Model string `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := GetPreset(probe.Model)
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !knownModel(cfg.Model) {
		if _, ok := Presets[cfg.Model]; ok {
			return nil, fmt.Errorf("%s: %q is a preset, not a model (models: %v)", path, cfg.Model, ListModels())
		}
		return nil, fmt.Errorf("%s: unknown model %q (models: %v)", path, cfg.Model, ListModels())
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %f", c.Step)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush_interval must be positive, got %d", c.FlushInterval)
	}
	if c.Graph.SpanX <= 0 || c.Graph.SpanY <= 0 {
		return fmt.Errorf("graph spans must be positive, got %f x %f", c.Graph.SpanX, c.Graph.SpanY)
	}
	if c.Palette.Steps <= 0 {
		return fmt.Errorf("palette steps must be positive, got %d", c.Palette.Steps)
	}
	return nil
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState = append([]float64(nil), c.InitState...)
	cp.Traces = append([]TraceConfig(nil), c.Traces...)
	cp.Palette.Anchors = append([]string(nil), c.Palette.Anchors...)
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}

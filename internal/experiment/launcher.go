package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/storage"
	"github.com/san-kum/chaosplot/internal/task"
)

// Recorder stores finished runs.
type Recorder interface {
	Save(r storage.Run) error
}

// Launcher turns "start plot X" requests into simulation runs on one
// surface. All runs on the surface share the launcher's token, so starting a
// plot retires whichever run was drawing before.
type Launcher struct {
	registry    *Registry
	token       *task.Token
	surface     sim.Surface
	surfaceName string
	width       int
	height      int
	overrides   map[string]*config.Config
	recorder    Recorder
	observers   []sim.Observer
	logger      *slog.Logger
}

type LauncherOption func(*Launcher)

// WithSize sets the plot size for surfaces that do not report their own.
func WithSize(width, height int) LauncherOption {
	return func(l *Launcher) { l.width, l.height = width, height }
}

// WithPlot replaces or adds a named plot configuration.
func WithPlot(name string, cfg *config.Config) LauncherOption {
	return func(l *Launcher) { l.overrides[name] = cfg }
}

func WithRecorder(r Recorder) LauncherOption {
	return func(l *Launcher) { l.recorder = r }
}

func WithSurfaceName(name string) LauncherOption {
	return func(l *Launcher) { l.surfaceName = name }
}

func WithObserver(o sim.Observer) LauncherOption {
	return func(l *Launcher) { l.observers = append(l.observers, o) }
}

func WithLogger(logger *slog.Logger) LauncherOption {
	return func(l *Launcher) { l.logger = logger }
}

func NewLauncher(surface sim.Surface, token *task.Token, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		registry:    NewRegistry(),
		token:       token,
		surface:     surface,
		surfaceName: "surface",
		width:       config.DefaultWidth,
		height:      config.DefaultHeight,
		overrides:   make(map[string]*config.Config),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Launcher) Token() *task.Token { return l.token }

func (l *Launcher) Registry() *Registry { return l.registry }

// Config returns the configuration used for the named plot.
func (l *Launcher) Config(name string) (*config.Config, error) {
	if cfg, ok := l.overrides[name]; ok {
		return cfg.Clone(), nil
	}
	if cfg := config.GetPreset(name); cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("unknown plot: %s (available: %v)", name, config.ListPresets())
}

func (l *Launcher) size() (int, int) {
	if s, ok := l.surface.(sim.Sizer); ok {
		if w, h := s.Size(); w > 0 && h > 0 {
			return w, h
		}
	}
	return l.width, l.height
}

// Begin makes a fresh task id active. Any run already drawing on the surface
// stops at its next iteration.
func (l *Launcher) Begin() uuid.UUID {
	return l.token.Begin()
}

// Start begins and runs the named plot.
func (l *Launcher) Start(ctx context.Context, name string) (*sim.Result, error) {
	return l.Run(ctx, l.Begin(), name)
}

// Run draws the named plot under a task id obtained from Begin. If the id
// has already been superseded the run ends as cancelled without drawing.
func (l *Launcher) Run(ctx context.Context, id uuid.UUID, name string) (*sim.Result, error) {
	cfg, err := l.Config(name)
	if err != nil {
		return nil, err
	}
	w, h := l.size()
	plot, err := BuildPlot(l.registry, name, cfg, w, h)
	if err != nil {
		return nil, err
	}

	if c, ok := l.surface.(sim.Clearer); ok && l.token.IsActive(id) {
		if err := c.Clear(); err != nil {
			l.logger.Debug("clear failed", "plot", name, "err", err)
		}
	}

	s := sim.New(l.surface, l.token, sim.WithLogger(l.logger))
	for _, o := range l.observers {
		s.AddObserver(o)
	}

	started := time.Now()
	res, err := s.Run(ctx, id, plot)
	if err != nil {
		return nil, err
	}

	if l.recorder != nil {
		if err := l.recorder.Save(l.record(res, cfg, started)); err != nil {
			l.logger.Warn("failed to record run", "task", id.String(), "err", err)
		}
	}
	return res, nil
}

func (l *Launcher) record(res *sim.Result, cfg *config.Config, started time.Time) storage.Run {
	r := storage.Run{
		ID:         res.ID.String(),
		Plot:       res.Plot,
		Model:      cfg.Model,
		Surface:    l.surfaceName,
		Status:     res.Status.String(),
		Planned:    cfg.Iterations,
		Iterations: res.Iterations,
		Segments:   res.Segments,
		Pumps:      res.Pumps,
		Step:       cfg.Step,
		StartedAt:  started.UnixNano(),
		ElapsedNS:  int64(res.Elapsed),
	}
	if res.Err != nil {
		r.Cause = res.Err.Error()
	}
	return r
}

package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/integrators"
	"github.com/san-kum/chaosplot/internal/task"
)

type Simulator struct {
	surface    Surface
	token      *task.Token
	integrator dynamo.Integrator
	observers  []Observer
	logger     *slog.Logger
}

type Option func(*Simulator)

func WithIntegrator(i dynamo.Integrator) Option {
	return func(s *Simulator) { s.integrator = i }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(surface Surface, token *task.Token, opts ...Option) *Simulator {
	s := &Simulator{
		surface:    surface,
		token:      token,
		integrator: integrators.NewRK4(),
		observers:  make([]Observer, 0),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run draws plot until its iterations are exhausted, the token moves on to
// another id, the state stops being finite, or the surface goes away. Only
// an invalid plot is reported as an error; every other outcome is a Status.
func (s *Simulator) Run(ctx context.Context, id uuid.UUID, p Plot) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res := &Result{ID: id, Plot: p.Name, Status: Running}
	log := s.logger.With("task", id.String(), "plot", p.Name)
	log.Debug("run started", "iterations", p.Iterations, "step", p.Step)
	start := time.Now()

	prev := p.Init.Clone()

	for i := 0; i < p.Iterations; i++ {
		if ctx.Err() != nil || !s.token.IsActive(id) {
			res.Status = Cancelled
			break
		}

		next := s.integrator.Step(p.System, prev, p.Step)
		if !next.IsValid() {
			res.Status = Diverged
			res.Err = &dynamo.SimulationError{Step: i, State: next, Wrapped: dynamo.ErrInvalidState}
			break
		}

		color := p.Palette.Hex(i)
		for _, tr := range p.Traces {
			x0, y0 := p.Graph.Map(prev[tr.X], prev[tr.Y])
			x1, y1 := p.Graph.Map(next[tr.X], next[tr.Y])
			if err := s.surface.DrawSegment(x0, y0, x1, y1, color); err != nil {
				res.Status = SurfaceLost
				res.Err = err
				break
			}
			res.Segments++
		}
		if res.Status != Running {
			break
		}
		res.Iterations++

		for _, obs := range s.observers {
			obs.OnStep(i, next)
		}

		if i%p.FlushInterval == 0 {
			if err := s.surface.Pump(); err != nil {
				res.Status = SurfaceLost
				res.Err = err
				break
			}
			res.Pumps++
		}

		prev = next
	}

	if !res.Status.Terminal() {
		res.Status = Completed
	}
	if err := s.surface.Pump(); err == nil {
		res.Pumps++
	}
	res.Elapsed = time.Since(start)

	log.Info("run finished",
		"status", res.Status.String(),
		"iterations", res.Iterations,
		"segments", res.Segments,
		"elapsed", res.Elapsed,
	)
	if res.Err != nil {
		log.Debug("run stopped early", "cause", res.Err)
	}

	return res, nil
}

package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/viz"
)

// DefaultFlushInterval is how many iterations pass between surface pumps.
const DefaultFlushInterval = 500

type Status int

const (
	Idle Status = iota
	Running
	Completed
	Cancelled
	SurfaceLost
	Diverged
)

var statusNames = map[Status]string{
	Idle:        "idle",
	Running:     "running",
	Completed:   "completed",
	Cancelled:   "cancelled",
	SurfaceLost: "surface_lost",
	Diverged:    "diverged",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether a run in this status has stopped.
func (s Status) Terminal() bool {
	return s >= Completed
}

// Trace selects the two state components drawn as x and y.
type Trace struct {
	X, Y int
}

// Plot is everything a run needs: the system, where it starts, how it is
// stepped, and how its trajectory is mapped and colored.
type Plot struct {
	Name          string
	System        dynamo.System
	Init          dynamo.State
	Graph         viz.Graph
	Palette       *viz.Palette
	Step          float64
	Iterations    int
	FlushInterval int
	Traces        []Trace
}

func (p Plot) Validate() error {
	if p.System == nil {
		return fmt.Errorf("plot %q: no system", p.Name)
	}
	if p.Palette == nil {
		return fmt.Errorf("plot %q: no palette", p.Name)
	}
	if p.Step <= 0 {
		return fmt.Errorf("plot %q: step must be positive, got %f", p.Name, p.Step)
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("plot %q: iterations must be positive, got %d", p.Name, p.Iterations)
	}
	if p.FlushInterval <= 0 {
		return fmt.Errorf("plot %q: flush interval must be positive, got %d", p.Name, p.FlushInterval)
	}
	if err := dynamo.CheckDim(p.System, p.Init); err != nil {
		return fmt.Errorf("plot %q: %w", p.Name, err)
	}
	if !p.Init.IsValid() {
		return fmt.Errorf("plot %q: %w", p.Name, dynamo.ErrInvalidState)
	}
	if len(p.Traces) == 0 {
		return fmt.Errorf("plot %q: nothing to trace", p.Name)
	}
	for _, tr := range p.Traces {
		if tr.X < 0 || tr.Y < 0 || tr.X >= len(p.Init) || tr.Y >= len(p.Init) {
			return fmt.Errorf("plot %q: trace (%d, %d) out of range for %d components", p.Name, tr.X, tr.Y, len(p.Init))
		}
	}
	return nil
}

type Result struct {
	ID         uuid.UUID
	Plot       string
	Status     Status
	Iterations int
	Segments   int
	Pumps      int
	Elapsed    time.Duration
	// Err is the cause of SurfaceLost or Diverged.
	Err error
}

type Observer interface {
	OnStep(i int, x dynamo.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(i int, x dynamo.State)

func (f ObserverFunc) OnStep(i int, x dynamo.State) { f(i, x) }

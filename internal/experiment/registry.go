package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/physics"
)

type Registry struct {
	models map[string]func() dynamo.System
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() dynamo.System),
	}

	r.models["ac7"] = func() dynamo.System { return physics.NewAC7() }
	r.models["rabbit_foxes"] = func() dynamo.System { return physics.NewRabbitFoxes() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() dynamo.System) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package registry maps environment ids to their specs and factories so
// callers can construct instances by id. The registry never steps instances;
// it supplies the factories and EnvSpec metadata the vector runners and the
// TimeLimit wrapper consume.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/wrapper"
)

// Registry is a concurrency-safe id -> (spec, factory) catalog.
type Registry struct {
	mu        sync.RWMutex
	specs     map[string]core.EnvSpec
	factories map[string]core.Factory
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		specs:     make(map[string]core.EnvSpec),
		factories: make(map[string]core.Factory),
	}
}

// Register adds an environment spec and its factory. Duplicate ids are
// rejected.
func (r *Registry) Register(spec core.EnvSpec, factory core.Factory) error {
	if spec.ID == "" {
		return fmt.Errorf("registry: spec id must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("registry: factory for %q must not be nil", spec.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.ID]; exists {
		return fmt.Errorf("registry: id already registered: %s", spec.ID)
	}
	r.specs[spec.ID] = spec
	r.factories[spec.ID] = factory
	return nil
}

// Spec returns the registered spec for id.
func (r *Registry) Spec(id string) (core.EnvSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[id]
	if !ok {
		return core.EnvSpec{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return spec, nil
}

// IDs returns all registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Make constructs a fresh instance of id. When the spec sets MaxEpisodeSteps
// the instance is wrapped in a TimeLimit.
func (r *Registry) Make(id string) (core.Env, core.EnvSpec, error) {
	factory, spec, err := r.lookup(id)
	if err != nil {
		return nil, core.EnvSpec{}, err
	}
	env, err := factory()
	if err != nil {
		return nil, core.EnvSpec{}, fmt.Errorf("registry: constructing %s: %w", id, err)
	}
	if spec.MaxEpisodeSteps > 0 {
		env = wrapper.NewTimeLimit(env, spec.MaxEpisodeSteps)
	}
	return env, spec, nil
}

// Factory returns a factory for id whose instances already carry the spec's
// TimeLimit, suitable for handing to a vector runner.
func (r *Registry) Factory(id string) (core.Factory, error) {
	if _, _, err := r.lookup(id); err != nil {
		return nil, err
	}
	return func() (core.Env, error) {
		env, _, err := r.Make(id)
		return env, err
	}, nil
}

// Factories returns n copies of the factory for id, one per vector slot.
func (r *Registry) Factories(id string, n int) ([]core.Factory, error) {
	factory, err := r.Factory(id)
	if err != nil {
		return nil, err
	}
	factories := make([]core.Factory, n)
	for i := range factories {
		factories[i] = factory
	}
	return factories, nil
}

func (r *Registry) lookup(id string) (core.Factory, core.EnvSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[id]
	if !ok {
		return nil, core.EnvSpec{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return factory, r.specs[id], nil
}

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// Register adds spec and factory to the default registry.
func Register(spec core.EnvSpec, factory core.Factory) error {
	return Default.Register(spec, factory)
}

// Spec fetches a spec from the default registry.
func Spec(id string) (core.EnvSpec, error) { return Default.Spec(id) }

// Make constructs an instance from the default registry.
func Make(id string) (core.Env, core.EnvSpec, error) { return Default.Make(id) }

// Factories returns n slot factories from the default registry.
func Factories(id string, n int) ([]core.Factory, error) { return Default.Factories(id, n) }

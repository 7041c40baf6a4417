package role

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kingrea/scrumteam/internal/provider"
)

// Kind names a concrete role variant.
type Kind string

const (
	KindArchitect Kind = "architect"
	KindDeveloper Kind = "developer"
	KindTester    Kind = "tester"
)

// Definition describes one team member before it is built.
type Definition struct {
	Kind             Kind          `yaml:"-"`
	Name             string        `yaml:"name" validate:"required"`
	FocusAreas       []string      `yaml:"focus_areas"`
	Responsibilities []string      `yaml:"responsibilities"`
	Skills           []string      `yaml:"skills,omitempty"`
	Specialties      []string      `yaml:"specialties,omitempty"`
	Provider         provider.Spec `yaml:"provider,omitempty"`
}

// Profile resolves the shared identity, coercing the provider spec when set.
func (d Definition) Profile() (Profile, error) {
	p := Profile{
		Name:             strings.TrimSpace(d.Name),
		FocusAreas:       d.FocusAreas,
		Responsibilities: d.Responsibilities,
	}
	if p.Name == "" {
		return Profile{}, fmt.Errorf("role: name is required for %s", d.Kind)
	}
	if !d.Provider.IsZero() {
		desc, err := provider.Coerce(d.Provider)
		if err != nil {
			return Profile{}, fmt.Errorf("role %s: %w", p.Name, err)
		}
		p.Provider = desc
	}
	return p, nil
}

// Factory constructs a role from its definition.
type Factory func(Definition) (Role, error)

// Registry maintains known role factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[Kind]Factory{}}
}

// DefaultRegistry knows the architect, developer and tester variants.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindArchitect, func(def Definition) (Role, error) {
		p, err := def.Profile()
		if err != nil {
			return nil, err
		}
		return NewArchitect(p), nil
	})
	r.MustRegister(KindDeveloper, func(def Definition) (Role, error) {
		p, err := def.Profile()
		if err != nil {
			return nil, err
		}
		return NewDeveloper(p, def.Skills), nil
	})
	r.MustRegister(KindTester, func(def Definition) (Role, error) {
		p, err := def.Profile()
		if err != nil {
			return nil, err
		}
		return NewTester(p, def.Specialties), nil
	})
	return r
}

// Register installs a factory. Returns an error if the kind already exists.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("role: kind is required")
	}
	if factory == nil {
		return fmt.Errorf("role: factory is required for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("role: %s already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Resolve builds the role described by def.
func (r *Registry) Resolve(def Definition) (Role, error) {
	r.mu.RLock()
	factory, ok := r.factories[def.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("role: unknown kind %q", def.Kind)
	}
	return factory(def)
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

package algorithm

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Factory constructs a strategy instance.
type Factory func() (Extractor, error)

// Registry maps strategy names to factories. Populated at startup; duplicate
// registration is a programmer error and fails fast.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named factory. Registering the same name twice returns an
// error rather than silently overwriting the earlier factory.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return eris.New("algorithm: register with empty name")
	}
	if f == nil {
		return eris.Errorf("algorithm: nil factory for %q", name)
	}
	if _, exists := r.factories[name]; exists {
		return eris.Errorf("algorithm: %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New constructs the named strategy. Unknown names are configuration errors.
func (r *Registry) New(name string) (Extractor, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, eris.Errorf("algorithm: unknown algorithm %q", name)
	}
	return f()
}

// Names returns all registered strategy names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewAll constructs every registered strategy in name order.
func (r *Registry) NewAll() ([]Extractor, error) {
	var extractors []Extractor
	for _, name := range r.Names() {
		ex, err := r.New(name)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}
	return extractors, nil
}

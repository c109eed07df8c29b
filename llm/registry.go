package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a provider instance from configuration.
type Factory func(cfg Config) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterFactory adds an adapter factory to the global registry.
// Typically called from init() in adapter packages:
//
//	func init() {
//	    llm.RegisterFactory("ollama", func(cfg llm.Config) (llm.Provider, error) { ... })
//	}
func RegisterFactory(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// NewProvider instantiates a provider using the factory registered for
// cfg.Type.
func NewProvider(cfg Config) (Provider, error) {
	cfg.ApplyDefaults()

	factoriesMu.RLock()
	factory, ok := factories[cfg.Type]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm: no adapter registered for type %q (have %v)", cfg.Type, FactoryNames())
	}
	return factory(cfg)
}

// FactoryNames returns the sorted names of all registered adapter factories.
func FactoryNames() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package translate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a provider from its configuration.
type Constructor func(cfg Config) (Translator, error)

// Registry holds named provider constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry with the built-in providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ProviderDeepL, NewDeepL)
	r.Register(ProviderGoogle, NewGoogle)
	r.Register(ProviderOpenAI, NewOpenAI)
	return r
}

func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[strings.ToLower(name)] = c
}

// Has reports whether a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[strings.ToLower(name)]
	return ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the provider named by cfg.Provider.
func (r *Registry) New(cfg Config) (Translator, error) {
	r.mu.RLock()
	c, ok := r.constructors[strings.ToLower(cfg.Provider)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown translation provider %q (available: %s)", cfg.Provider, strings.Join(r.Names(), ", "))
	}
	return c(cfg)
}

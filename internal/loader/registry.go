package loader

import (
	"context"
	"fmt"
	"sync"
)

// Capability is an entry point one module exposes to the ones loaded after it.
type Capability func(ctx context.Context) error

// Registry holds capabilities by name. It replaces page-global hand-offs.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
}

func NewRegistry() *Registry {
	return &Registry{capabilities: make(map[string]Capability)}
}

func (r *Registry) Provide(name string, fn Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.capabilities[name]; exists {
		return fmt.Errorf("capability %q already provided", name)
	}
	r.capabilities[name] = fn
	return nil
}

func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.capabilities[name]
	return fn, ok
}

// Invoke calls a capability, failing when it was never provided.
func (r *Registry) Invoke(ctx context.Context, name string) error {
	fn, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("capability %q not provided", name)
	}
	return fn(ctx)
}

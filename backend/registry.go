package backend

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshview/gpucore"
)

// Factory creates a backend instance.
type Factory func() gpucore.Backend

// registry holds registered backends. Priority order for selection:
// the GPU backend first, the software backend as fallback.
var registry = gpucontext.NewRegistry[gpucore.Backend](
	gpucontext.WithPriority(NameWGPU, NameSoftware),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// A factory registered under an existing name replaces it.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	names := registry.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a backend by name. An empty name selects Default.
func Get(name string) (gpucore.Backend, error) {
	if name == "" {
		if b := Default(); b != nil {
			return b, nil
		}
		return nil, ErrBackendNotAvailable
	}
	if !registry.Has(name) {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	b := registry.Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return b, nil
}

// Default returns the best available backend based on priority.
// Priority order: wgpu > software.
// Returns nil if no backends are registered.
func Default() gpucore.Backend {
	return registry.Best()
}

// DefaultName returns the name Default would pick.
func DefaultName() string {
	return registry.BestName()
}

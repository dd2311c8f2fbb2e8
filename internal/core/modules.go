package core

import (
	"github.com/go-chi/chi/v5"
)

// Module is the interface every SDK module must implement to be mounted on
// the edge router. New modules (audience, identity, lifecycle, ...) are added
// by implementing this interface and registering themselves.
type Module interface {
	// Name returns the unique identifier for this module (e.g., "audience").
	// This is used for discovery, configuration, and the route prefix.
	Name() string

	// RegisterRoutes sets up HTTP routes for this module on the provided
	// router, which is scoped to the module's path prefix.
	RegisterRoutes(router chi.Router)
}

// moduleRegistry holds all registered modules.
type moduleRegistry struct {
	modules []Module
}

var registry = &moduleRegistry{
	modules: make([]Module, 0),
}

// RegisterModule adds a module to the global registry.
// This should be called during application initialization, before the edge
// router is built.
func RegisterModule(m Module) {
	registry.modules = append(registry.modules, m)
}

// RegisteredModules returns all currently registered modules.
// The edge router uses this to mount routes for each enabled module.
func RegisteredModules() []Module {
	return registry.modules
}

// Package plugin is the composition root contract of the host: modules are
// constructed from an explicit factory list, register what they provide into
// a shared Services context, and later attach their routes to the host router.
package plugin

import (
	"github.com/gorilla/mux"

	"github.com/R3E-Network/modulith/internal/config"
)

// Module is a self-contained unit of functionality hosted by the process.
type Module interface {
	// Name identifies the module in configuration and logs (e.g. "catalog").
	Name() string

	// Register adds the module's services to the shared context. It runs once,
	// during single-threaded startup.
	Register(services *Services, cfg *config.Config) error

	// MapEndpoints attaches the module routes to the host router.
	MapEndpoints(router *mux.Router)
}

// Factory is the zero-argument constructor of a module.
type Factory func() Module

// Info describes a loaded module for health and diagnostics output.
type Info struct {
	Name string `json:"name"`
}

// Describe lists the modules in load order.
func Describe(modules []Module) []Info {
	infos := make([]Info, 0, len(modules))
	for _, m := range modules {
		infos = append(infos, Info{Name: m.Name()})
	}
	return infos
}

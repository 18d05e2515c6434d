// Package modules holds the build-time list of modules hosted by the process.
package modules

import (
	"github.com/R3E-Network/modulith/internal/plugin"
	catalogapi "github.com/R3E-Network/modulith/modules/catalog/api"
)

// All returns the module factories in registration order.
func All() []plugin.Factory {
	return []plugin.Factory{
		catalogapi.New,
	}
}

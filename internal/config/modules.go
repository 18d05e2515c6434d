package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModulesConfig is the content of config/modules.yaml.
//
//	modules:
//	  catalog:
//	    enabled: true
//	    settings:
//	      cache_ttl: "1m"
type ModulesConfig struct {
	Modules map[string]*ModuleSettings `yaml:"modules"`
}

// ModuleSettings holds the switches for one module.
type ModuleSettings struct {
	Enabled     *bool             `yaml:"enabled"`
	Description string            `yaml:"description"`
	Settings    map[string]string `yaml:"settings"`
}

// LoadModulesConfigFromPath parses a modules file. The returned error wraps
// os.ErrNotExist when the file is absent.
func LoadModulesConfigFromPath(path string) (*ModulesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read modules config: %w", err)
	}

	var cfg ModulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse modules config: %w", err)
	}

	normalized := make(map[string]*ModuleSettings, len(cfg.Modules))
	for name, settings := range cfg.Modules {
		key := normalizeName(name)
		if key == "" {
			return nil, fmt.Errorf("modules config: empty module name")
		}
		if settings == nil {
			settings = &ModuleSettings{}
		}
		normalized[key] = settings
	}
	cfg.Modules = normalized
	return &cfg, nil
}

// DefaultModulesConfig enables every module.
func DefaultModulesConfig() *ModulesConfig {
	return &ModulesConfig{Modules: map[string]*ModuleSettings{}}
}

// IsEnabled reports whether a module is enabled. Modules without an entry, or
// without an explicit enabled flag, are enabled.
func (m *ModulesConfig) IsEnabled(name string) bool {
	if m == nil {
		return true
	}
	settings, ok := m.Modules[normalizeName(name)]
	if !ok || settings == nil || settings.Enabled == nil {
		return true
	}
	return *settings.Enabled
}

// Setting returns a module specific setting.
func (m *ModulesConfig) Setting(module, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	settings, ok := m.Modules[normalizeName(module)]
	if !ok || settings == nil {
		return "", false
	}
	v, ok := settings.Settings[key]
	return v, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

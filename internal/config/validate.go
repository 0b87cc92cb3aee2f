package config

import (
	"fmt"

	"github.com/mapd/vlcompile/pkg/adapter"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputAuto, OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output %q, must be one of auto, text, json", c.Output)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.WithAlias == "" {
		return fmt.Errorf("with_alias must not be empty")
	}
	if c.Target != nil && !adapter.IsRegistered(c.Target.Type) {
		return &adapter.UnknownAdapterError{Type: c.Target.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// Package config loads vlcompile configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// vlcompile.yaml (or .yml) file, VLCOMPILE_* environment variables and
// explicitly set command line flags.
package config

import (
	"strings"

	"github.com/mapd/vlcompile/pkg/adapter"
)

// Output modes.
const (
	OutputAuto = "auto" // text on a terminal, json otherwise
	OutputText = "text"
	OutputJSON = "json"
)

// Default configuration values.
const (
	DefaultLayerName   = "layer0"
	DefaultWithAlias   = "color"
	DefaultOutput      = OutputAuto
	DefaultParallelism = 4
	DefaultTargetType  = "duckdb"
)

// Config holds all configuration options.
type Config struct {
	LayerName   string        `koanf:"layer_name"`
	FactTable   string        `koanf:"fact_table"`
	WithAlias   string        `koanf:"with_alias"`
	Output      string        `koanf:"output"`
	Verbose     bool          `koanf:"verbose"`
	Parallelism int           `koanf:"parallelism"`
	Target      *TargetConfig `koanf:"target"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// TargetConfig describes the database extents are evaluated against.
// For duckdb, Database is the file path (":memory:" when empty).
type TargetConfig struct {
	Type     string            `koanf:"type"`
	Database string            `koanf:"database"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// AdapterConfig converts the target into an adapter configuration.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	cfg := adapter.Config{
		Type:     t.Type,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	if t.Type == "duckdb" {
		cfg.Path = t.Database
	} else {
		cfg.Database = t.Database
	}
	return cfg
}

// applyDefaults fills in type-specific target defaults.
func (t *TargetConfig) applyDefaults() {
	t.Type = strings.ToLower(t.Type)
	if t.Type == "" {
		t.Type = DefaultTargetType
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

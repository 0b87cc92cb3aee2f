// Package adapter defines the database adapters used to evaluate extent
// transforms against a fact table.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves on import.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the connection settings for one adapter.
type Config struct {
	Type     string            `koanf:"type" mapstructure:"type"`
	Path     string            `koanf:"path" mapstructure:"path"`
	Host     string            `koanf:"host" mapstructure:"host"`
	Port     int               `koanf:"port" mapstructure:"port"`
	Database string            `koanf:"database" mapstructure:"database"`
	Username string            `koanf:"username" mapstructure:"username"`
	Password string            `koanf:"password" mapstructure:"password"`
	Schema   string            `koanf:"schema" mapstructure:"schema"`
	Options  map[string]string `koanf:"options" mapstructure:"options"`

	// Params holds adapter-specific settings, decoded by each adapter.
	Params map[string]any `koanf:"params" mapstructure:"params"`
}

// Adapter is a connection to a database that extents can be queried from.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, query string) error

	// Query executes a SQL statement that returns rows. The caller closes
	// the rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// DialectName returns the SQL dialect the adapter speaks.
	DialectName() string
}

// CSVLoader is implemented by adapters that can load a CSV file as a table.
type CSVLoader interface {
	LoadCSV(ctx context.Context, tableName string, filePath string) error
}

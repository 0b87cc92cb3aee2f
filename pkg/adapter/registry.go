package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Factory creates an unconnected adapter. A nil logger means discard.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	aliases    = make(map[string]string)
)

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes an adapter available as a target.type under name and any
// aliases. Names are case-insensitive. Register panics on an empty name, a
// nil factory, or a name already taken, the same way database/sql.Register
// does for drivers.
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	canonical := normalize(name)
	if canonical == "" {
		panic("adapter: Register called with an empty name")
	}
	if factory == nil {
		panic("adapter: Register factory is nil for " + canonical)
	}
	if _, taken := lookup(canonical); taken {
		panic("adapter: Register called twice for " + canonical)
	}
	factories[canonical] = factory
	for _, a := range alias {
		a = normalize(a)
		if _, taken := lookup(a); taken || a == "" {
			panic(fmt.Sprintf("adapter: alias %q for %s is empty or taken", a, canonical))
		}
		aliases[a] = canonical
	}
}

// lookup resolves name to its canonical adapter name. Callers hold registryMu.
func lookup(name string) (string, bool) {
	if _, ok := factories[name]; ok {
		return name, true
	}
	canonical, ok := aliases[name]
	return canonical, ok
}

// Resolve returns the canonical adapter name for a target.type value.
func Resolve(name string) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return lookup(normalize(name))
}

// Get retrieves an adapter factory by name or alias.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	canonical, ok := lookup(normalize(name))
	if !ok {
		return nil, false
	}
	return factories[canonical], true
}

// NewAdapter creates an unconnected adapter for cfg.Type.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if strings.TrimSpace(cfg.Type) == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      cfg.Type,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// Open creates the adapter for cfg.Type and connects it. The adapter is
// closed again if the connection fails.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Adapter, error) {
	adp, err := NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		_ = adp.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return adp, nil
}

// ListAdapters returns the canonical adapter names, sorted. Aliases are
// not listed.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name or an alias of it is registered.
func IsRegistered(name string) bool {
	_, ok := Resolve(name)
	return ok
}

// UnknownAdapterError is returned when target.type names no registered
// adapter.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %s\nHint: Check target.type in vlcompile.yaml",
		e.Type, strings.Join(e.Available, ", "))
}

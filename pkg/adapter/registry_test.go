package adapter

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	connectErr error
	connected  bool
	closed     bool
}

func (s *stubAdapter) Connect(_ context.Context, _ Config) error {
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connected = true
	return nil
}

func (s *stubAdapter) Close() error {
	s.closed = true
	return nil
}

func (s *stubAdapter) Exec(context.Context, string) error { return nil }

func (s *stubAdapter) Query(context.Context, string, ...any) (*sql.Rows, error) { return nil, nil }

func (s *stubAdapter) DialectName() string { return "stub" }

var (
	stubMu sync.Mutex
	stubs  = map[string]*stubAdapter{}
)

// registerStub registers name once per process so the tests survive -count.
// Each factory call builds a fresh stub and records it as the last one made.
func registerStub(t *testing.T, name string, connectErr error, alias ...string) {
	t.Helper()
	if IsRegistered(name) {
		return
	}
	Register(name, func(_ *slog.Logger) Adapter {
		adp := &stubAdapter{connectErr: connectErr}
		stubMu.Lock()
		stubs[name] = adp
		stubMu.Unlock()
		return adp
	}, alias...)
}

func lastStub(name string) *stubAdapter {
	stubMu.Lock()
	defer stubMu.Unlock()
	return stubs[name]
}

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"duckdb", "postgres"},
	}

	msg := err.Error()
	assert.Contains(t, msg, `"fake_db"`)
	assert.Contains(t, msg, "duckdb, postgres")
	assert.Contains(t, msg, "target.type in vlcompile.yaml")
}

func TestRegisterAliasesAndCase(t *testing.T) {
	registerStub(t, "test_warehouse", nil, "test_wh", "TEST_DW")

	tests := []struct {
		name      string
		lookup    string
		canonical string
	}{
		{"canonical", "test_warehouse", "test_warehouse"},
		{"upper case", "TEST_Warehouse", "test_warehouse"},
		{"padded", "  test_warehouse ", "test_warehouse"},
		{"alias", "test_wh", "test_warehouse"},
		{"alias registered upper case", "test_dw", "test_warehouse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical, ok := Resolve(tt.lookup)
			require.True(t, ok)
			assert.Equal(t, tt.canonical, canonical)

			factory, ok := Get(tt.lookup)
			require.True(t, ok)
			assert.NotNil(t, factory)
		})
	}

	assert.Contains(t, ListAdapters(), "test_warehouse")
	assert.NotContains(t, ListAdapters(), "test_wh", "aliases are not listed")
}

func TestRegisterPanics(t *testing.T) {
	registerStub(t, "test_taken", nil, "test_taken_alias")
	factory := func(_ *slog.Logger) Adapter { return &stubAdapter{} }

	tests := []struct {
		name     string
		register func()
	}{
		{"empty name", func() { Register(" ", factory) }},
		{"nil factory", func() { Register("test_nil_factory", nil) }},
		{"duplicate name", func() { Register("TEST_TAKEN", factory) }},
		{"name taken by alias", func() { Register("test_taken_alias", factory) }},
		{"alias taken", func() { Register("test_alias_clash", factory, "test_taken") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.register)
		})
	}
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{Type: "  "}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}

func TestNewAdapter_UnknownType(t *testing.T) {
	registerStub(t, "test_adapter_listed", nil)

	_, err := NewAdapter(Config{Type: "nosuchdb"}, nil)
	require.Error(t, err)

	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nosuchdb", unknown.Type)
	assert.Contains(t, unknown.Available, "test_adapter_listed")
	assert.IsNonDecreasing(t, unknown.Available)
}

func TestOpen(t *testing.T) {
	registerStub(t, "test_open_ok", nil)
	registerStub(t, "test_open_failing", assert.AnError)

	adp, err := Open(context.Background(), Config{Type: "Test_Open_OK"}, nil)
	require.NoError(t, err)
	ok := lastStub("test_open_ok")
	assert.Same(t, ok, adp)
	assert.True(t, ok.connected)
	assert.False(t, ok.closed)

	_, err = Open(context.Background(), Config{Type: "test_open_failing"}, nil)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to connect to test_open_failing")
	assert.True(t, lastStub("test_open_failing").closed, "an adapter that fails to connect is closed")
}

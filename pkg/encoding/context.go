package encoding

import "log/slog"

// Context is the root of a compilation pass for one layer.
type Context struct {
	LayerName string
	Logger    *slog.Logger
}

// NewContext creates a compilation context for layerName.
func NewContext(layerName string, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{LayerName: layerName, Logger: logger}
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Context) layerName() string {
	if c == nil {
		return ""
	}
	return c.LayerName
}

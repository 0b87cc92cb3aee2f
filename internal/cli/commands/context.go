package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mapd/vlcompile/internal/cli/output"
	"github.com/mapd/vlcompile/internal/config"
	"github.com/mapd/vlcompile/internal/layer"
	"github.com/mapd/vlcompile/pkg/encoding"
	"github.com/mapd/vlcompile/pkg/factsplit"
)

// CommandContext holds what a command needs from the root command.
type CommandContext struct {
	Config   *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer the root
// command stored in cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	return &CommandContext{
		Config:   config.FromContext(ctx),
		Logger:   config.GetLogger(ctx),
		Renderer: output.FromContext(ctx),
	}
}

// Defaults returns the layer defaults from the config.
func (c *CommandContext) Defaults() layer.Defaults {
	return layer.Defaults{
		LayerName: c.Config.LayerName,
		FactTable: c.Config.FactTable,
		WithAlias: c.Config.WithAlias,
	}
}

// loadedLayer is one layer document and the request built from it.
type loadedLayer struct {
	Path     string
	Doc      layer.Document
	Request  encoding.LayerRequest
	Defaults layer.Defaults
}

// loadLayers reads every layer file concurrently and builds the compile
// requests in argument order.
func (c *CommandContext) loadLayers(ctx context.Context, paths []string) ([]loadedLayer, error) {
	perFile := make([][]layer.Document, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.Config.Parallelism))
	for i, path := range paths {
		g.Go(func() error {
			docs, err := layer.Load(path)
			if err != nil {
				return err
			}
			perFile[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	splitter := factsplit.NewSplitter(c.Logger)
	defaults := c.Defaults()
	seen := map[string]string{}

	var layers []loadedLayer
	for i, docs := range perFile {
		for _, doc := range docs {
			req := doc.Request(splitter, defaults)
			if prev, ok := seen[req.Name]; ok {
				return nil, fmt.Errorf("layer %q in %s is already defined in %s", req.Name, paths[i], prev)
			}
			seen[req.Name] = paths[i]
			layers = append(layers, loadedLayer{Path: paths[i], Doc: doc, Request: req, Defaults: defaults})
		}
	}
	c.Logger.Debug("layers loaded", slog.Int("files", len(paths)), slog.Int("layers", len(layers)))
	return layers, nil
}

// compile compiles the loaded layers concurrently.
func (c *CommandContext) compile(ctx context.Context, layers []loadedLayer) ([]encoding.LayerResult, error) {
	reqs := make([]encoding.LayerRequest, len(layers))
	for i, l := range layers {
		reqs[i] = l.Request
	}
	return encoding.CompileLayers(ctx, c.Logger, reqs, encoding.StandardDescriptors(), c.Config.Parallelism)
}

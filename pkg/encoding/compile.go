package encoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mapd/vlcompile/pkg/vega"
)

// CompileLayer compiles every channel of enc into out, in channel name
// order. A failing channel contributes nothing to out; its error is
// returned joined with those of other failing channels.
func CompileLayer(ctx *Context, enc map[string]any, descriptors Descriptors, out *vega.PropertyOutputState) error {
	channels := make([]string, 0, len(enc))
	for ch := range enc {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	var errs []error
	for _, ch := range channels {
		if err := compileChannel(ctx, ch, enc[ch], descriptors, out); err != nil {
			ctx.logger().Debug("channel failed",
				slog.String("layer", ctx.layerName()),
				slog.String("channel", ch),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("channel %q: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

func compileChannel(ctx *Context, channel string, raw any, descriptors Descriptors, out *vega.PropertyOutputState) error {
	desc, err := descriptors.Lookup(channel)
	if err != nil {
		return err
	}
	scratch := vega.NewPropertyOutputState()
	if err := NewFieldDefinition(channel, raw).Materialize(ctx, desc, scratch); err != nil {
		return err
	}
	return out.Merge(scratch)
}

// LayerRequest is one layer to compile.
type LayerRequest struct {
	Name     string
	Encoding map[string]any
	// SQL holds SQL transforms recorded ahead of the encoding's own, such
	// as fact projections split out of a custom color expression.
	SQL             []vega.SQLTransform
	ColorExpression string
}

// LayerResult is the outcome of compiling one layer. Spec holds whatever
// compiled even when Err is set.
type LayerResult struct {
	Spec vega.LayerSpec
	Err  error
}

// CompileLayers compiles independent layers concurrently, at most
// parallelism at a time. Results are in request order. The returned error
// is non-nil only if ctx was cancelled; per-layer failures are reported
// in each result.
func CompileLayers(ctx context.Context, logger *slog.Logger, layers []LayerRequest, descriptors Descriptors, parallelism int) ([]LayerResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]LayerResult, len(layers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, req := range layers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := vega.NewPropertyOutputState()
			for _, t := range req.SQL {
				out.AddSQLParserTransform(t)
			}
			cctx := NewContext(req.Name, logger.With(slog.String("layer", req.Name)))
			err := CompileLayer(cctx, req.Encoding, descriptors, out)

			spec := out.Spec(req.Name)
			spec.ColorExpression = req.ColorExpression
			results[i] = LayerResult{Spec: spec, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

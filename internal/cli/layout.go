package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// layoutOutput holds the flags specific to the layout command.
type layoutOutput struct {
	output  string
	format  string
	rect    string
	noCache bool
	refresh bool
}

// layoutCommand creates the layout command for packing a manifest.
func (c *CLI) layoutCommand() *cobra.Command {
	var out layoutOutput

	cmd := &cobra.Command{
		Use:   "layout [manifest.toml]",
		Short: "Pack a manifest into grid frames",
		Long: `Pack a manifest into grid frames.

The layout command reads a manifest (TOML or JSON) and packs its items into a
grid whose capacity follows from the viewport and unit size. The result is a
snapshot listing every item's cell, span, and pixel frame.

With --rect only the items in the rows touched by the rectangle are packed and
reported, the way a scrolling view would ask for its visible area.

Results are cached, keyed by manifest content and options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "", "output format: text, json (default: from -o extension, else text)")
	cmd.Flags().StringVar(&out.rect, "rect", "", "only lay out rows touched by x,y,w,h")
	cmd.Flags().BoolVar(&out.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&out.refresh, "refresh", false, "recompute and overwrite the cached snapshot")

	return cmd
}

// runLayout loads the manifest, computes the snapshot, and writes it.
func (c *CLI) runLayout(ctx context.Context, stdout io.Writer, input string, out layoutOutput) error {
	format := out.format
	if format == "" {
		format = pipeline.FormatText
		if out.output != "" {
			format = pipeline.FormatForPath(out.output)
		}
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}

	m, err := manifest.Load(input)
	if err != nil {
		return fmt.Errorf("load manifest %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	opts := c.cfg.PipelineOptions()
	opts.Rect = out.rect
	opts.Refresh = out.refresh
	opts.Logger = logger

	runner, err := c.newRunner(ctx, out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d items...", m.Len()))
	spinner.Start()

	prog := newProgress(logger)
	snap, cacheHit, err := runner.Layout(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Packed %d frames", len(snap.Frames)))

	if out.output == "" {
		return snap.Encode(stdout, format)
	}

	if err := writeSnapshot(snap, out.output, format); err != nil {
		return fmt.Errorf("write output %s: %w", out.output, err)
	}

	printSuccess("Layout complete")
	printFile(out.output)
	printStats(m.Len(), len(snap.Frames), snap.Capacity, cacheHit)
	if n := snap.Stats.Oversized; n > 0 {
		printWarning("%d items wider than the viewport were placed at the leading edge", n)
	}
	if n := snap.Stats.Degraded; n > 0 {
		printWarning("%d items had no usable size and were laid out as 1x1", n)
	}
	fmt.Println()
	printNextStep("Browse", appName+" view "+input)

	return nil
}

// writeSnapshot encodes snap to path in format, which may differ from the
// format the path's extension implies.
func writeSnapshot(snap *pipeline.Snapshot, path, format string) error {
	if format == pipeline.FormatForPath(path) {
		return snap.WriteFile(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snap.Encode(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

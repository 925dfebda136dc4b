package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// frameCommand creates the frame command for inspecting a single item.
func (c *CLI) frameCommand() *cobra.Command {
	var cell string

	cmd := &cobra.Command{
		Use:   "frame [manifest.toml] [group.item]",
		Short: "Show where one item lands in the grid",
		Long: `Show where one item lands in the grid.

Packs the manifest only as far as needed to place the item, then prints its
cell, span, and pixel frame. With --cell, looks up the item covering that grid
cell instead.`,
		Example: `  mosaic frame gallery.toml 0.12
  mosaic frame gallery.toml --cell 2,40`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return fmt.Errorf("load manifest %s: %w", args[0], err)
			}

			opts := c.cfg.PipelineOptions()
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			l := mosaic.New(m, m, opts.LayoutOptions(m))

			var id mosaic.ItemID
			switch {
			case cell != "":
				at, err := parseCell(cell)
				if err != nil {
					return err
				}
				// Pack through the cell's row before looking it up.
				u := l.Unit()
				l.FramesForRect(geom.Rect{X: float64(at.X) * u.W, Y: float64(at.Y) * u.H, W: u.W, H: u.H})
				var ok bool
				if id, ok = l.OccupantAt(at); !ok {
					printInfo("Cell %d,%d is empty", at.X, at.Y)
					return nil
				}
			case len(args) == 2:
				if id, err = mosaic.ParseItemID(args[1]); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidItem, "need an item id or --cell")
			}

			f, ok := l.FrameFor(id)
			if !ok {
				return errors.New(errors.ErrCodeItemNotFound, "item %s not in manifest", id)
			}
			printFrame(pipeline.Describe(m, l, f), l.Capacity())
			return nil
		},
	}

	cmd.Flags().StringVar(&cell, "cell", "", "grid cell as x,y")

	return cmd
}

// printFrame prints one described frame as key-value lines.
func printFrame(f pipeline.Frame, capacity int) {
	if f.Label != "" {
		printKeyValue("item", fmt.Sprintf("%s (%s)", f.ID, f.Label))
	} else {
		printKeyValue("item", f.ID.String())
	}
	printKeyValue("cell", fmt.Sprintf("%d,%d", f.Cell.X, f.Cell.Y))
	printKeyValue("span", fmt.Sprintf("%dx%d", f.Span.W, f.Span.H))
	printKeyValue("frame", fmt.Sprintf("%g,%g %gx%g", f.Rect.X, f.Rect.Y, f.Rect.W, f.Rect.H))
	printKeyValue("capacity", strconv.Itoa(capacity))
}

// parseCell parses "x,y" into a grid cell.
func parseCell(s string) (mosaic.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return mosaic.Cell{}, errors.New(errors.ErrCodeInvalidRect, "invalid cell %q (want x,y)", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil || x < 0 || y < 0 {
		return mosaic.Cell{}, errors.New(errors.ErrCodeInvalidRect, "invalid cell %q (want non-negative x,y)", s)
	}
	return mosaic.Cell{X: x, Y: y}, nil
}

package pipeline

import (
	"bufio"
	"fmt"
	"io"
)

// glyphs label items in text renderings, cycling when there are more items.
const glyphs = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RenderText draws the snapshot's cell grid as characters, one per unit cell,
// in screen orientation. Empty cells are dots.
func RenderText(w io.Writer, s *Snapshot) error {
	cols, rows := 0, 0
	for _, f := range s.Frames {
		cols = max(cols, f.Cell.X+f.Span.W)
		rows = max(rows, f.Cell.Y+f.Span.H)
	}

	grid := make([][]byte, rows)
	for y := range grid {
		grid[y] = make([]byte, cols)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}
	for i, f := range s.Frames {
		g := glyphs[i%len(glyphs)]
		for y := f.Cell.Y; y < f.Cell.Y+f.Span.H; y++ {
			for x := f.Cell.X; x < f.Cell.X+f.Span.W; x++ {
				grid[y][x] = g
			}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# axis=%s capacity=%d items=%d extent=%gx%g\n",
		s.Axis, s.Capacity, len(s.Frames), s.Extent.W, s.Extent.H)
	for _, line := range grid {
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

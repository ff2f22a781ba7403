// Package img2ascii converts raster images into grids of text characters
// whose local brightness follows the image's local brightness.
//
// Candidate characters are rasterized into square bitmaps and ranked by
// the fraction of ink they carry. The image is cut into square blocks,
// one per output character, and each block is assigned the character
// whose normalized brightness is nearest the block's mean luminance.
package img2ascii

import (
	"strings"
)

const (
	// DefaultFont is the built-in monospaced font used when none is set.
	DefaultFont = "Go Mono"

	// DefaultGlyphSize is the edge length, in pixels, of glyph bitmaps.
	DefaultGlyphSize = 16
)

// Grid is the character output, indexed as grid[row][col]. All rows have
// the same length.
type Grid [][]rune

// NewGrid allocates a rows x cols grid of zero runes.
func NewGrid(rows, cols int) Grid {
	cells := make([]rune, rows*cols)
	g := make(Grid, rows)
	for i := range g {
		g[i] = cells[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns. A grid with no rows has no width,
// even when the image it came from was wide enough for several columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// String returns the grid as text, each row terminated by a newline.
func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

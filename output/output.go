// Package output writes character grids to the console or to HTML
// files.
package output

import (
	"bufio"
	"io"

	"github.com/wbrown/img2ascii"
)

// Writer consumes a finished character grid.
type Writer interface {
	WriteGrid(grid img2ascii.Grid) error
}

// Console writes grids as plain text, one line per row.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// WriteGrid implements Writer.
func (c *Console) WriteGrid(grid img2ascii.Grid) error {
	bw := bufio.NewWriter(c.w)
	for _, row := range grid {
		if _, err := bw.WriteString(string(row)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package output

import (
	"fmt"
	"html/template"
	"os"

	"github.com/wbrown/img2ascii"
)

// DefaultFontSize is the CSS font size, in pixels, of HTML output.
const DefaultFontSize = 8

// Monospace glyphs are about 0.6em wide; 0.4em of letter spacing with a
// 1em line height makes every character cell square, like the image
// blocks they stand for.
var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: #000; margin: 0; }
pre {
	color: #fff;
	font-family: '{{.Font}}', monospace;
	font-size: {{.FontSize}}px;
	line-height: 1em;
	letter-spacing: 0.4em;
	margin: 1em;
}
</style>
</head>
<body>
<pre>
{{range .Rows}}{{.}}
{{end}}</pre>
</body>
</html>
`))

// HTML writes each grid as a standalone page to a file, replacing it on
// every write. Text is light on a dark background, since brighter
// characters carry more ink.
type HTML struct {
	Path     string
	Font     string
	FontSize int
}

// NewHTML returns an HTML writer for path that names font in its style
// sheet.
func NewHTML(path, font string) *HTML {
	return &HTML{
		Path:     path,
		Font:     font,
		FontSize: DefaultFontSize,
	}
}

// WriteGrid implements Writer.
func (h *HTML) WriteGrid(grid img2ascii.Grid) error {
	f, err := os.Create(h.Path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = string(row)
	}

	err = page.Execute(f, struct {
		Title    string
		Font     string
		FontSize int
		Rows     []string
	}{
		Title:    fmt.Sprintf("%dx%d characters", grid.Cols(), grid.Rows()),
		Font:     h.Font,
		FontSize: h.FontSize,
		Rows:     rows,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", h.Path, err)
	}
	return nil
}

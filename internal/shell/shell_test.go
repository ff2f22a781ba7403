package shell

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

type recorder struct {
	grids []img2ascii.Grid
}

func (r *recorder) WriteGrid(grid img2ascii.Grid) error {
	r.grids = append(r.grids, grid)
	return nil
}

func newTestShell(t *testing.T, width, height int) *Shell {
	t.Helper()

	cfg := DefaultConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.html")
	img := imageutil.CreateGradientImage(width, height)

	s, err := New(img, cfg, log.New(io.Discard, "", 0),
		img2ascii.WithRasterizer(img2ascii.NewFontRasterizer(t.TempDir())))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Shell, line string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, s.Do(strings.Fields(line), &out))
	return out.String()
}

func TestNewClampsInitialWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"default", 200, 100, 64},
		{"narrow", 40, 40, 20},
		{"single pixel column", 1, 10, 1},
		{"panorama", 400, 2, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestShell(t, tt.width, tt.height)
			assert.Equal(t, tt.want, s.CharsInRow())
		})
	}
}

func TestResolutionNarrowImage(t *testing.T) {
	t.Parallel()

	// Narrower than MinPixelsPerChar: the only legal width is 1
	s := newTestShell(t, 1, 10)
	rec := &recorder{}
	s.SetOutput(rec)
	assert.Equal(t, 1, s.CharsInRow())

	assert.Equal(t, "width out of range, set to 1\n", do(t, s, "res up"))
	assert.Equal(t, 1, s.CharsInRow())
	assert.Equal(t, "width out of range, set to 1\n", do(t, s, "res down"))
	assert.Equal(t, 1, s.CharsInRow())

	assert.Empty(t, do(t, s, "render"))
	require.Len(t, rec.grids, 1)
	assert.Equal(t, 10, rec.grids[0].Rows())
	assert.Equal(t, 1, rec.grids[0].Cols())
}

func TestRunConsole(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 32)
	var out bytes.Buffer
	require.NoError(t, s.Run(strings.NewReader("console\nrender\nexit\n"), &out))

	rows := strings.TrimPrefix(out.String(), prompt+prompt)
	rows = strings.TrimSuffix(rows, prompt)
	assert.Equal(t, 16, strings.Count(rows, "\n"))
}

func TestNewNilLogger(t *testing.T) {
	t.Parallel()

	s, err := New(imageutil.CreateGradientImage(8, 8), DefaultConfig(), nil,
		img2ascii.WithRasterizer(img2ascii.NewFontRasterizer(t.TempDir())))
	require.NoError(t, err)
	assert.Equal(t, msgInvalidInput+"\n", do(t, s, "add abc"))
}

func TestNewInvalidCharset(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InitialChars = "0-9-"
	_, err := New(imageutil.NewRGBAImage(8, 8), cfg, log.New(io.Discard, "", 0))
	assert.ErrorIs(t, err, img2ascii.ErrInvalidRange)
}

func TestResolution(t *testing.T) {
	t.Parallel()

	// min is 200/100 = 2 and max is 200/2 = 100
	s := newTestShell(t, 200, 100)

	assert.Equal(t, "width out of range, set to 100\n", do(t, s, "res up"))
	assert.Equal(t, 100, s.CharsInRow())

	assert.Equal(t, "width set to 50\n", do(t, s, "res down"))
	for _, want := range []int{25, 12, 6, 3} {
		do(t, s, "res down")
		assert.Equal(t, want, s.CharsInRow())
	}

	assert.Equal(t, "width out of range, set to 2\n", do(t, s, "res down"))
	assert.Equal(t, 2, s.CharsInRow())

	assert.Equal(t, msgInvalidInput+"\n", do(t, s, "res sideways"))
	assert.Equal(t, 2, s.CharsInRow())
}

func TestCharsCommands(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)

	assert.Equal(t, "0 1 2 3 4 5 6 7 8 9 \n", do(t, s, "chars"))

	assert.Empty(t, do(t, s, "add c-a"))
	assert.Empty(t, do(t, s, "remove 1-9"))
	assert.Equal(t, "0 a b c \n", do(t, s, "chars"))

	assert.Empty(t, do(t, s, "add space"))
	assert.Equal(t, "  0 a b c \n", do(t, s, "chars"))
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)

	for _, line := range []string{
		"foo",
		"add",
		"add a b",
		"chars please",
		"add abc",
		"remove a_z",
		"res",
	} {
		assert.Equal(t, msgInvalidInput+"\n", do(t, s, line), line)
	}
	assert.Equal(t, 10, s.Chars().Len())
	assert.Empty(t, do(t, s, ""))
}

func TestRender(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 200, 100)
	rec := &recorder{}
	s.SetOutput(rec)

	assert.Empty(t, do(t, s, "render"))
	require.Len(t, rec.grids, 1)

	// 64 characters gives 3 pixel blocks
	grid := rec.grids[0]
	assert.Equal(t, 66, grid.Cols())
	assert.Equal(t, 33, grid.Rows())
	for _, row := range grid {
		for _, c := range row {
			assert.True(t, s.Chars().Contains(c), "unexpected %q", c)
		}
	}
}

func TestRenderEmptyCharset(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)
	rec := &recorder{}
	s.SetOutput(rec)

	do(t, s, "remove all")
	assert.Equal(t, msgEmptyCharset+"\n", do(t, s, "render"))
	assert.Empty(t, rec.grids)
}

func TestRenderMissingGlyph(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)
	rec := &recorder{}
	s.SetOutput(rec)

	do(t, s, "add 一")
	assert.Contains(t, do(t, s, "render"), "render failed")
	assert.Empty(t, rec.grids)
}

func TestRenderConsole(t *testing.T) {
	t.Parallel()

	// 32 characters of 2 pixels each
	s := newTestShell(t, 64, 32)

	// The console writes to the stream the command came from
	var out bytes.Buffer
	require.NoError(t, s.Do([]string{"console"}, &out))
	require.NoError(t, s.Do([]string{"render"}, &out))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 16)
	for _, line := range lines {
		assert.Equal(t, 32, utf8.RuneCountInString(line))
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "page.html")
	s, err := New(imageutil.CreateGradientImage(64, 64), cfg, log.New(io.Discard, "", 0),
		img2ascii.WithRasterizer(img2ascii.NewFontRasterizer(t.TempDir())))
	require.NoError(t, err)

	assert.Empty(t, do(t, s, "render"))
	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "32x32 characters")
}

func TestRun(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)
	in := strings.NewReader("chars\n\nbogus\nexit\nchars\n")
	var out bytes.Buffer

	require.NoError(t, s.Run(in, &out))

	want := prompt + "0 1 2 3 4 5 6 7 8 9 \n" +
		prompt +
		prompt + msgInvalidInput + "\n" +
		prompt
	assert.Equal(t, want, out.String())
}

func TestRunEndOfInput(t *testing.T) {
	t.Parallel()

	s := newTestShell(t, 64, 64)
	var out bytes.Buffer

	require.NoError(t, s.Run(strings.NewReader("res up\n"), &out))
	assert.Equal(t, prompt+"width out of range, set to 32\n"+prompt+"\n", out.String())
}

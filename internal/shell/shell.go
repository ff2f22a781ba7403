// Package shell implements the interactive command loop: it keeps the
// active character set and resolution and renders on request.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/output"
)

const (
	prompt = ">>> "

	msgInvalidInput = "invalid input, try again"
	msgOutOfRange   = "width out of range, set to %d\n"
	msgWidthSet     = "width set to %d\n"
	msgEmptyCharset = "character set is empty, add characters first"
)

// Config holds the shell's starting state.
type Config struct {
	// InitialCharsInRow is clamped into the legal range for the image.
	InitialCharsInRow int
	// MinPixelsPerChar bounds the finest resolution: blocks are at
	// least this many pixels wide.
	MinPixelsPerChar int
	// InitialChars is a range spec, see img2ascii.ParseRange.
	InitialChars string
	// OutputPath is where render writes HTML until "console" is used.
	OutputPath string
	FontName   string
}

// DefaultConfig returns the standard starting state.
func DefaultConfig() Config {
	return Config{
		InitialCharsInRow: 64,
		MinPixelsPerChar:  2,
		InitialChars:      "0-9",
		OutputPath:        "out.html",
		FontName:          img2ascii.DefaultFont,
	}
}

// Shell is an interactive session over one image.
type Shell struct {
	matcher *img2ascii.Matcher
	chars   *img2ascii.CharSet
	output  output.Writer
	logger  *log.Logger

	charsInRow    int
	minCharsInRow int
	maxCharsInRow int
}

// New creates a shell for img. The matcher is created once here, so its
// block cache is shared by every render of the session. opts are passed
// on to img2ascii.NewMatcher after the font and logger.
func New(img img2ascii.Image, cfg Config, logger *log.Logger, opts ...img2ascii.MatcherOption) (*Shell, error) {
	if img.Width() < 1 || img.Height() < 1 {
		return nil, errors.New("shell: image is empty")
	}
	if cfg.MinPixelsPerChar < 1 {
		cfg.MinPixelsPerChar = 1
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	chars := img2ascii.NewCharSet()
	if cfg.InitialChars != "" {
		if err := chars.Add(cfg.InitialChars); err != nil {
			return nil, err
		}
	}

	opts = append([]img2ascii.MatcherOption{
		img2ascii.WithFont(cfg.FontName),
		img2ascii.WithLogger(logger),
	}, opts...)

	s := &Shell{
		matcher:       img2ascii.NewMatcher(img, opts...),
		chars:         chars,
		output:        output.NewHTML(cfg.OutputPath, cfg.FontName),
		logger:        logger,
		minCharsInRow: max(1, img.Width()/img.Height()),
	}
	// Images narrower than MinPixelsPerChar still get one character
	s.maxCharsInRow = max(s.minCharsInRow, img.Width()/cfg.MinPixelsPerChar)
	s.charsInRow = max(min(cfg.InitialCharsInRow, s.maxCharsInRow), s.minCharsInRow)
	return s, nil
}

// CharsInRow returns the current resolution.
func (s *Shell) CharsInRow() int {
	return s.charsInRow
}

// Chars returns the active character set.
func (s *Shell) Chars() *img2ascii.CharSet {
	return s.chars
}

// SetOutput replaces the writer render sends grids to.
func (s *Shell) SetOutput(w output.Writer) {
	s.output = w
}

// Run reads commands from in until "exit" or end of input, writing the
// prompt and all messages to out.
func (s *Shell) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		words := strings.Fields(scanner.Text())
		if len(words) == 1 && words[0] == "exit" {
			return nil
		}
		if err := s.Do(words, out); err != nil {
			return err
		}
	}
}

// Do runs one command. Mistakes in the command are reported on out; only
// failures writing output are returned.
func (s *Shell) Do(words []string, out io.Writer) error {
	if len(words) == 0 {
		return nil
	}

	arity := map[string]int{
		"chars":   1,
		"add":     2,
		"remove":  2,
		"res":     2,
		"render":  1,
		"console": 1,
	}
	n, ok := arity[words[0]]
	if !ok || len(words) != n {
		_, err := fmt.Fprintln(out, msgInvalidInput)
		return err
	}

	switch words[0] {
	case "chars":
		return s.showChars(out)
	case "add":
		return s.report(out, s.chars.Add(words[1]))
	case "remove":
		return s.report(out, s.chars.Remove(words[1]))
	case "res":
		return s.changeRes(words[1], out)
	case "render":
		return s.render(out)
	case "console":
		s.output = output.NewConsole(out)
	}
	return nil
}

func (s *Shell) report(out io.Writer, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Printf("Command failed: %v", err)
	_, werr := fmt.Fprintln(out, msgInvalidInput)
	return werr
}

func (s *Shell) showChars(out io.Writer) error {
	var sb strings.Builder
	for _, c := range s.chars.Runes() {
		sb.WriteRune(c)
		sb.WriteByte(' ')
	}
	_, err := fmt.Fprintln(out, sb.String())
	return err
}

// changeRes doubles or halves the resolution, clamping it into
// [minCharsInRow, maxCharsInRow].
func (s *Shell) changeRes(dir string, out io.Writer) error {
	next := s.charsInRow
	switch dir {
	case "up":
		next *= 2
	case "down":
		next /= 2
	default:
		_, err := fmt.Fprintln(out, msgInvalidInput)
		return err
	}

	var err error
	switch {
	case next > s.maxCharsInRow:
		s.charsInRow = s.maxCharsInRow
		_, err = fmt.Fprintf(out, msgOutOfRange, s.charsInRow)
	case next < s.minCharsInRow:
		s.charsInRow = s.minCharsInRow
		_, err = fmt.Fprintf(out, msgOutOfRange, s.charsInRow)
	default:
		s.charsInRow = next
		_, err = fmt.Fprintf(out, msgWidthSet, s.charsInRow)
	}
	return err
}

func (s *Shell) render(out io.Writer) error {
	if s.chars.Len() == 0 {
		_, err := fmt.Fprintln(out, msgEmptyCharset)
		return err
	}

	grid, err := s.matcher.ChooseChars(s.charsInRow, s.chars.Runes())
	if err != nil {
		// Rasterization failures are the user's to fix, e.g. a
		// character the font lacks
		_, werr := fmt.Fprintf(out, "render failed: %v\n", err)
		return werr
	}
	if err := s.output.WriteGrid(grid); err != nil {
		return err
	}
	s.logger.Printf("Rendered %dx%d grid", grid.Cols(), grid.Rows())
	return nil
}

package img2ascii

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// ErrInvalidWidth is returned when the requested characters per row
// would give blocks narrower than one pixel.
var ErrInvalidWidth = errors.New("img2ascii: characters per row out of range")

// Matcher converts one image into character grids. The block luminance
// cache lives as long as the Matcher, so reusing a Matcher for several
// resolutions or character sets only computes each distinct block once.
// ChooseChars may be called from several goroutines.
type Matcher struct {
	// Configuration options
	FontName  string
	GlyphSize int
	Workers   int

	img        Image
	rasterizer Rasterizer
	cache      *BrightnessCache
	logger     *log.Logger
}

// MatcherOption is a functional option for configuring a Matcher.
type MatcherOption func(*Matcher)

// NewMatcher creates a Matcher for img.
// Default values: FontName=DefaultFont, GlyphSize=DefaultGlyphSize,
// Workers=1, a shared FontRasterizer over DefaultFontDirs and a logger
// that discards output.
func NewMatcher(img Image, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		FontName:  DefaultFont,
		GlyphSize: DefaultGlyphSize,
		Workers:   1,
		img:       img,
		cache:     NewBrightnessCache(),
		logger:    log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.rasterizer == nil {
		m.rasterizer = NewFontRasterizer()
	}
	return m
}

// WithFont sets the font characters are rendered in.
func WithFont(name string) MatcherOption {
	return func(m *Matcher) {
		m.FontName = name
	}
}

// WithGlyphSize sets the square glyph resolution in pixels.
func WithGlyphSize(size int) MatcherOption {
	return func(m *Matcher) {
		m.GlyphSize = size
	}
}

// WithWorkers sets how many goroutines match rows concurrently. Values
// below 2 match sequentially.
func WithWorkers(n int) MatcherOption {
	return func(m *Matcher) {
		m.Workers = n
	}
}

// WithRasterizer replaces the glyph rasterizer.
func WithRasterizer(r Rasterizer) MatcherOption {
	return func(m *Matcher) {
		m.rasterizer = r
	}
}

// WithLogger sets the logger used for progress and cache statistics.
// A nil logger keeps the default, which discards output.
func WithLogger(logger *log.Logger) MatcherOption {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// ChooseChars renders the image numCharsInRow characters wide using only
// the characters in chars. The order of chars decides ties between
// equally bright characters, so callers should pass a stable order such
// as CharSet.Runes. An empty chars returns an empty grid.
func (m *Matcher) ChooseChars(numCharsInRow int, chars []rune) (Grid, error) {
	if len(chars) == 0 {
		return Grid{}, nil
	}
	if numCharsInRow < 1 || numCharsInRow > m.img.Width() {
		return nil, fmt.Errorf("%w: %d (image is %d pixels wide)",
			ErrInvalidWidth, numCharsInRow, m.img.Width())
	}

	table, err := BuildBrightnessTable(m.rasterizer, m.FontName, m.GlyphSize, chars)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tiler := NewTiler(m.img, numCharsInRow)
	grid := NewGrid(tiler.Rows(), tiler.Cols())

	workers := min(m.Workers, tiler.Rows())
	if workers > 1 {
		m.matchParallel(tiler, table, grid, workers)
	} else {
		for pos, block := range tiler.Blocks() {
			grid[pos.Y][pos.X] = table[Closest(table, m.cache.Luminance(block))].Char
		}
	}

	stats := m.cache.Stats()
	m.logger.Printf("Matched %dx%d blocks of %dpx against %d characters in %v",
		tiler.Cols(), tiler.Rows(), tiler.Size(), len(table), time.Since(start))
	m.logger.Printf("Block cache: %d hits, %d misses, %d entries (%.1f%% hit rate)",
		stats.Hits, stats.Misses, stats.Entries, stats.HitRate()*100)

	return grid, nil
}

// matchParallel fans rows out to a fixed set of workers. Each worker
// writes only the rows it receives, so the grid matches the sequential
// result exactly.
func (m *Matcher) matchParallel(tiler *Tiler, table BrightnessTable, grid Grid, workers int) {
	rows := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for row := range rows {
				col := 0
				for block := range tiler.Row(row) {
					grid[row][col] = table[Closest(table, m.cache.Luminance(block))].Char
					col++
				}
			}
		}()
	}

	for row := 0; row < tiler.Rows(); row++ {
		rows <- row
	}
	close(rows)
	wg.Wait()
}

// CacheStats returns the block cache statistics accumulated over every
// ChooseChars call on this Matcher.
func (m *Matcher) CacheStats() CacheStats {
	return m.cache.Stats()
}

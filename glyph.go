package img2ascii

import (
	"image"
	"math/bits"
	"strings"
)

// inkThreshold is the alpha level above which a rendered pixel counts as
// ink. 64/255 keeps anti-aliased edges and thin strokes that a 50% cut
// would drop.
const inkThreshold = 64

// Glyph is a character rendered into a Size x Size black and white
// bitmap. Pixels are stored row-major, one bit each; a set bit is ink.
// A Glyph is immutable once returned by a Rasterizer.
type Glyph struct {
	Rune rune
	Size int
	bits []uint64
}

// Rasterizer renders a character at a given font and square resolution.
// Implementations must be deterministic for the (rune, font, size) triple
// and safe for concurrent use.
type Rasterizer interface {
	Rasterize(r rune, fontName string, size int) (*Glyph, error)
}

func newGlyph(r rune, size int) *Glyph {
	return &Glyph{
		Rune: r,
		Size: size,
		bits: make([]uint64, (size*size+63)/64),
	}
}

// GlyphFromBitmap builds a Glyph from a square boolean bitmap indexed as
// bitmap[y][x]. The size is taken from the number of rows; missing cells
// in short rows are left blank.
func GlyphFromBitmap(r rune, bitmap [][]bool) *Glyph {
	g := newGlyph(r, len(bitmap))
	for y, row := range bitmap {
		for x, ink := range row {
			g.setBit(x, y, ink)
		}
	}
	return g
}

// glyphFromAlpha thresholds a rendered coverage mask into a Glyph.
func glyphFromAlpha(r rune, img *image.Alpha) *Glyph {
	size := img.Bounds().Dx()
	g := newGlyph(r, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if img.AlphaAt(x, y).A > inkThreshold {
				g.setBit(x, y, true)
			}
		}
	}
	return g
}

// getBit checks if a specific bit is set in the bitmap
func (g *Glyph) getBit(x, y int) bool {
	if x < 0 || x >= g.Size || y < 0 || y >= g.Size {
		return false
	}
	pos := y*g.Size + x
	return g.bits[pos/64]&(1<<(pos%64)) != 0
}

// setBit sets a specific bit in the bitmap
func (g *Glyph) setBit(x, y int, value bool) {
	if x < 0 || x >= g.Size || y < 0 || y >= g.Size {
		return
	}
	pos := y*g.Size + x
	if value {
		g.bits[pos/64] |= 1 << (pos % 64)
	} else {
		g.bits[pos/64] &^= 1 << (pos % 64)
	}
}

// At reports whether the pixel at (x, y) is ink. Out of range
// coordinates are blank.
func (g *Glyph) At(x, y int) bool {
	return g.getBit(x, y)
}

// Ink returns the number of ink pixels.
func (g *Glyph) Ink() int {
	n := 0
	for _, w := range g.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Brightness returns the fraction of ink pixels, in [0, 1].
func (g *Glyph) Brightness() float64 {
	if g.Size == 0 {
		return 0
	}
	return float64(g.Ink()) / float64(g.Size*g.Size)
}

// String draws the bitmap with '#' for ink and '.' for blank, one line
// per row.
func (g *Glyph) String() string {
	var sb strings.Builder
	sb.Grow(g.Size * (g.Size + 1))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.getBit(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

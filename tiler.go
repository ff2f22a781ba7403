package img2ascii

import (
	"crypto/sha256"
	"encoding/binary"
	"image"
	"iter"

	"github.com/wbrown/img2ascii/imageutil"
)

// Image is the pixel source the matcher reads from. It must not change
// while a conversion is running. *imageutil.RGBAImage implements it.
type Image interface {
	Width() int
	Height() int
	GetRGB(x, y int) imageutil.RGB
}

// Tiler partitions an image into square blocks, one per output
// character. Pixels to the right of the last whole column of blocks, and
// below the last whole row, are not covered.
type Tiler struct {
	img  Image
	size int
	rows int
	cols int
}

// NewTiler tiles img into blocks of Width/numCharsInRow pixels. A block
// size below one pixel yields a Tiler with no blocks.
func NewTiler(img Image, numCharsInRow int) *Tiler {
	t := &Tiler{img: img}
	if numCharsInRow < 1 {
		return t
	}
	t.size = img.Width() / numCharsInRow
	if t.size < 1 {
		return t
	}
	t.rows = img.Height() / t.size
	t.cols = img.Width() / t.size
	return t
}

// Size returns the block edge length in pixels.
func (t *Tiler) Size() int { return t.size }

// Rows returns the number of block rows.
func (t *Tiler) Rows() int { return t.rows }

// Cols returns the number of block columns.
func (t *Tiler) Cols() int { return t.cols }

// Blocks yields every block in row-major order together with its
// position in the grid (X is the column, Y the row). Each range over the
// sequence starts again from the first block.
func (t *Tiler) Blocks() iter.Seq2[image.Point, Block] {
	return func(yield func(image.Point, Block) bool) {
		for row := 0; row < t.rows; row++ {
			for col := 0; col < t.cols; col++ {
				if !yield(image.Pt(col, row), t.block(col, row)) {
					return
				}
			}
		}
	}
}

// Row yields the blocks of one row from left to right.
func (t *Tiler) Row(row int) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if row < 0 || row >= t.rows {
			return
		}
		for col := 0; col < t.cols; col++ {
			if !yield(t.block(col, row)) {
				return
			}
		}
	}
}

func (t *Tiler) block(col, row int) Block {
	x, y := col*t.size, row*t.size
	return Block{
		src:  t.img,
		Rect: image.Rect(x, y, x+t.size, y+t.size),
	}
}

// Block is a rectangular region of an image.
type Block struct {
	src  Image
	Rect image.Rectangle
}

// Pixels yields the block's pixels row by row.
func (b Block) Pixels() iter.Seq[imageutil.RGB] {
	return func(yield func(imageutil.RGB) bool) {
		for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
			for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
				if !yield(b.src.GetRGB(x, y)) {
					return
				}
			}
		}
	}
}

// BlockKey identifies a block by its content: blocks with equal
// dimensions and equal pixels have equal keys, wherever they come from.
type BlockKey [sha256.Size]byte

// Key returns the SHA-256 digest of the block's dimensions followed by
// its RGB bytes.
func (b Block) Key() BlockKey {
	h := sha256.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(b.Rect.Dx()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Rect.Dy()))
	h.Write(dims[:])

	row := make([]byte, 0, 3*b.Rect.Dx())
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		row = row[:0]
		for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
			c := b.src.GetRGB(x, y)
			row = append(row, c.R, c.G, c.B)
		}
		h.Write(row)
	}

	var k BlockKey
	h.Sum(k[:0])
	return k
}

// Luminance returns the block's mean perceptual grey level scaled to
// [0, 1]. An empty block is black.
func Luminance(b Block) float64 {
	n := b.Rect.Dx() * b.Rect.Dy()
	if n <= 0 {
		return 0
	}
	var sum float64
	for c := range b.Pixels() {
		sum += c.Grey()
	}
	return sum / float64(n) / 255
}

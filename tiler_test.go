package img2ascii

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/img2ascii/imageutil"
)

var (
	white = imageutil.RGB{R: 255, G: 255, B: 255}
	black = imageutil.RGB{}
)

func TestTilerTruncation(t *testing.T) {
	t.Parallel()

	tiler := NewTiler(imageutil.NewRGBAImage(17, 10), 5)

	assert.Equal(t, 3, tiler.Size())
	assert.Equal(t, 5, tiler.Cols())
	assert.Equal(t, 3, tiler.Rows())

	var rects []image.Rectangle
	for _, b := range tiler.Blocks() {
		rects = append(rects, b.Rect)
	}
	require.Len(t, rects, 15)
	assert.Equal(t, image.Rect(0, 0, 3, 3), rects[0])
	assert.Equal(t, image.Rect(12, 6, 15, 9), rects[14])
	for _, r := range rects {
		assert.True(t, r.In(image.Rect(0, 0, 15, 9)), "block %v outside covered area", r)
	}
}

func TestTilerRowMajor(t *testing.T) {
	t.Parallel()

	tiler := NewTiler(imageutil.NewRGBAImage(12, 8), 3)

	var got []image.Point
	for pos, b := range tiler.Blocks() {
		got = append(got, pos)
		assert.Equal(t, image.Pt(pos.X*4, pos.Y*4), b.Rect.Min)
	}
	want := []image.Point{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
	}
	assert.Equal(t, want, got)
}

func TestTilerRestartable(t *testing.T) {
	t.Parallel()

	tiler := NewTiler(imageutil.NewRGBAImage(8, 8), 4)

	count := func() int {
		n := 0
		for range tiler.Blocks() {
			n++
		}
		return n
	}
	assert.Equal(t, 16, count())
	assert.Equal(t, 16, count())

	// Stopping early must not disturb the next pass
	for pos := range tiler.Blocks() {
		if pos.X == 1 {
			break
		}
	}
	assert.Equal(t, 16, count())
}

func TestTilerRow(t *testing.T) {
	t.Parallel()

	tiler := NewTiler(imageutil.NewRGBAImage(12, 8), 3)

	var rects []image.Rectangle
	for b := range tiler.Row(1) {
		rects = append(rects, b.Rect)
	}
	assert.Equal(t, []image.Rectangle{
		image.Rect(0, 4, 4, 8),
		image.Rect(4, 4, 8, 8),
		image.Rect(8, 4, 12, 8),
	}, rects)

	for range tiler.Row(2) {
		t.Fatal("row past the end yielded a block")
	}
}

func TestTilerNoBlocks(t *testing.T) {
	t.Parallel()

	img := imageutil.NewRGBAImage(4, 4)
	for _, n := range []int{0, -1, 5} {
		tiler := NewTiler(img, n)
		assert.Zero(t, tiler.Rows(), "n=%d", n)
		assert.Zero(t, tiler.Cols(), "n=%d", n)
		for range tiler.Blocks() {
			t.Fatalf("n=%d yielded a block", n)
		}
	}
}

func TestLuminance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		img  *imageutil.RGBAImage
		want float64
	}{
		{"black", imageutil.CreateSolidImage(4, 4, black), 0},
		{"white", imageutil.CreateSolidImage(4, 4, white), 1},
		{"checkerboard", imageutil.CreateCheckerboardImage(4, 4, 1), 0.5},
		{"pure green", imageutil.CreateSolidImage(4, 4, imageutil.RGB{G: 255}), imageutil.LumaGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Block{src: tt.img, Rect: tt.img.Bounds()}
			assert.InDelta(t, tt.want, Luminance(b), 1e-9)
		})
	}
}

func TestLuminanceEmptyBlock(t *testing.T) {
	t.Parallel()

	img := imageutil.CreateSolidImage(2, 2, white)
	assert.Zero(t, Luminance(Block{src: img}))
}

func TestBlockKeyByContent(t *testing.T) {
	t.Parallel()

	// Columns alternate white, black, white, black
	img := imageutil.CreateCheckerboardImage(8, 2, 2)
	tiler := NewTiler(img, 4)

	var keys []BlockKey
	for b := range tiler.Row(0) {
		keys = append(keys, b.Key())
	}
	require.Len(t, keys, 4)
	assert.Equal(t, keys[0], keys[2])
	assert.Equal(t, keys[1], keys[3])
	assert.NotEqual(t, keys[0], keys[1])

	// Same pixels, different dimensions
	wide := Block{src: img, Rect: image.Rect(0, 0, 2, 1)}
	tall := Block{src: img, Rect: image.Rect(0, 0, 1, 2)}
	assert.NotEqual(t, wide.Key(), tall.Key())
}

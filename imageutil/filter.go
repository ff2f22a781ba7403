package imageutil

import (
	"fmt"
	"math"
)

// Kernel is a convolution kernel, indexed as Values[y][x]. Width and
// Height should be odd so the kernel has a centre pixel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a kernel from rows of weights.
func NewKernel(values [][]float64) *Kernel {
	k := &Kernel{Values: values, Height: len(values)}
	if k.Height > 0 {
		k.Width = len(values[0])
	}
	return k
}

// SharpeningKernel boosts local contrast, which keeps thin features
// visible once blocks are averaged down to a single character.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// BlurKernel is a 3x3 Gaussian approximation.
func BlurKernel() *Kernel {
	return NewKernel([][]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	})
}

// Convolve returns a new image with kernel applied to every channel.
// Pixels outside the image take the value of the nearest edge pixel.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)
	halfW, halfH := kernel.Width/2, kernel.Height/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for ky, row := range kernel.Values {
				sy := min(max(y+ky-halfH, 0), height-1)
				for kx, k := range row {
					sx := min(max(x+kx-halfW, 0), width-1)
					c := img.GetRGB(sx, sy)
					r += float64(c.R) * k
					g += float64(c.G) * k
					b += float64(c.B) * k
				}
			}
			dst.SetRGB(x, y, RGB{R: clampUint8(r), G: clampUint8(g), B: clampUint8(b)})
		}
	}
	return dst
}

func clampUint8(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 255)))
}

// Filter is a preprocessing step applied before conversion.
type Filter int

const (
	FilterNone Filter = iota
	FilterSharpen
	FilterBlur
)

var filterNames = map[string]Filter{
	"none":    FilterNone,
	"sharpen": FilterSharpen,
	"blur":    FilterBlur,
}

// ParseFilter returns the filter called name.
func ParseFilter(name string) (Filter, error) {
	f, ok := filterNames[name]
	if !ok {
		return FilterNone, fmt.Errorf("unknown filter %q", name)
	}
	return f, nil
}

func (f Filter) String() string {
	for name, v := range filterNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// Apply runs the filter over img. FilterNone returns img itself.
func (f Filter) Apply(img *RGBAImage) *RGBAImage {
	switch f {
	case FilterSharpen:
		return Convolve(img, SharpeningKernel())
	case FilterBlur:
		return Convolve(img, BlurKernel())
	default:
		return img
	}
}

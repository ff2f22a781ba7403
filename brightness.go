package img2ascii

import "fmt"

// BrightnessEntry pairs a character with its normalized brightness.
type BrightnessEntry struct {
	Char       rune
	Brightness float64
}

// BrightnessTable is an ordered list of characters and their normalized
// brightness. Order matters: Closest breaks ties by position.
type BrightnessTable []BrightnessEntry

// NormalizeBrightness linearly rescales raw so that its minimum maps to 0
// and its maximum to 1, preserving positions. When every value is equal
// the result is all zeros.
func NormalizeBrightness(raw []float64) []float64 {
	out := make([]float64, len(raw))
	if len(raw) == 0 {
		return out
	}

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return out
	}

	for i, v := range raw {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// BuildBrightnessTable rasterizes every rune of chars and returns their
// normalized brightness in the same order. The first rasterization
// failure is returned.
func BuildBrightnessTable(r Rasterizer, fontName string, size int, chars []rune) (BrightnessTable, error) {
	raw := make([]float64, len(chars))
	for i, c := range chars {
		g, err := r.Rasterize(c, fontName, size)
		if err != nil {
			return nil, fmt.Errorf("rasterize %q: %w", c, err)
		}
		raw[i] = g.Brightness()
	}

	normalized := NormalizeBrightness(raw)
	table := make(BrightnessTable, len(chars))
	for i, c := range chars {
		table[i] = BrightnessEntry{Char: c, Brightness: normalized[i]}
	}
	return table, nil
}

// Closest returns the index of the entry whose brightness is nearest to
// lum, preferring the earliest entry on ties, or -1 for an empty table.
func Closest(table BrightnessTable, lum float64) int {
	best := -1
	bestGap := 0.0
	for i, e := range table {
		gap := e.Brightness - lum
		if gap < 0 {
			gap = -gap
		}
		if best < 0 || gap < bestGap {
			best, bestGap = i, gap
		}
	}
	return best
}

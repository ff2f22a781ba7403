package imageutil

// Rec. 709 luma weights. These are the perceptual weights used for block
// brightness, not the BT.601 ones most decoders use for grayscale.
const (
	LumaRed   = 0.2126
	LumaGreen = 0.7152
	LumaBlue  = 0.0722
)

// Grey returns the perceptual grey level of c in [0, 255].
func (c RGB) Grey() float64 {
	return LumaRed*float64(c.R) + LumaGreen*float64(c.G) + LumaBlue*float64(c.B)
}

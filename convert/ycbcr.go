package convert

import "image/color"

// ycbcrToRGB converts one packed YCbCr24 pixel to 8-bit RGB using the
// JFIF full-range coefficients.
func ycbcrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	return color.YCbCrToRGB(y, cb, cr)
}

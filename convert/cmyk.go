package convert

// cmykToRGB converts one packed CMYK32 pixel to 8-bit RGB. The channels are
// stored inverted (Adobe convention, as produced by DCT-based decoders), so
// each component scales by K directly.
func cmykToRGB(c, m, y, k uint8) (r, g, b uint8) {
	r = uint8(uint32(c) * uint32(k) / 255)
	g = uint8(uint32(m) * uint32(k) / 255)
	b = uint8(uint32(y) * uint32(k) / 255)
	return
}

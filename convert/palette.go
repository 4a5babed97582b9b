package convert

import (
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// paletteRGBA64 resolves one palette index to a 16-bit RGBA pixel. Only
// 24-bit RGB and 32-bit RGBA palette entries are resolvable; an index at or
// past the declared color count is a broken image, never a silent clamp.
func paletteRGBA64(pal *core.Palette, index uint32) (rgba64, error) {
	const op = "convert.palette"

	if pal == nil {
		return rgba64{}, apperrors.Newf(apperrors.CodeBrokenImage, op,
			"indexed image carries no palette")
	}
	if index >= uint32(pal.ColorCount) {
		return rgba64{}, apperrors.Newf(apperrors.CodeBrokenImage, op,
			"palette index %d is out of range [0; %d)", index, pal.ColorCount)
	}

	switch pal.PixelFormat {
	case core.BPP24RGB:
		entry := pal.Data[index*3:]
		return rgba64{
			r: uint16(entry[0]) * 257,
			g: uint16(entry[1]) * 257,
			b: uint16(entry[2]) * 257,
			a: opaque,
		}, nil
	case core.BPP32RGBA:
		entry := pal.Data[index*4:]
		return rgba64{
			r: uint16(entry[0]) * 257,
			g: uint16(entry[1]) * 257,
			b: uint16(entry[2]) * 257,
			a: uint16(entry[3]) * 257,
		}, nil
	}
	return rgba64{}, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, op,
		"palette pixel format %s is not supported", pal.PixelFormat)
}

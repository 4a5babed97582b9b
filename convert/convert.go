// Package convert is the pixel normalization engine. It converts any
// supported source pixel encoding into one of the eight canonical
// 64-bit-per-pixel channel permutations (and 32-bit counterparts),
// pixel-exact and bit-exact.
//
// 8-bit channel values are promoted to 16 bits by multiplying by 257, the
// exact integer scale mapping 0..255 onto 0..65535. That multiplier is a
// correctness requirement, not an approximation.
package convert

import (
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// channelIndexes places red/green/blue/alpha inside the 4-channel
// interleaved output layout. a == -1 means the target has no alpha; the
// 4th channel slot is still occupied and written fully opaque.
type channelIndexes struct {
	r, g, b, a int
}

// rgba64Indexes maps each canonical 64-bit output tag to its channel
// placement. Conversion to any other format is not supported by the
// 64-bit-kind entry points.
func rgba64Indexes(output core.PixelFormat) (channelIndexes, error) {
	switch output {
	case core.BPP64RGBX:
		return channelIndexes{r: 0, g: 1, b: 2, a: -1}, nil
	case core.BPP64BGRX:
		return channelIndexes{r: 2, g: 1, b: 0, a: -1}, nil
	case core.BPP64XRGB:
		return channelIndexes{r: 1, g: 2, b: 3, a: -1}, nil
	case core.BPP64XBGR:
		return channelIndexes{r: 3, g: 2, b: 1, a: -1}, nil
	case core.BPP64RGBA:
		return channelIndexes{r: 0, g: 1, b: 2, a: 3}, nil
	case core.BPP64BGRA:
		return channelIndexes{r: 2, g: 1, b: 0, a: 3}, nil
	case core.BPP64ARGB:
		return channelIndexes{r: 1, g: 2, b: 3, a: 0}, nil
	case core.BPP64ABGR:
		return channelIndexes{r: 3, g: 2, b: 1, a: 0}, nil
	}
	return channelIndexes{}, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat,
		"convert.indexes", "conversion to %s is not supported, use a BPP64-RGBA-like output pixel format", output)
}

// ToRGBA64Kind converts src into a newly allocated image of the given
// canonical 64-bit output format.
func ToRGBA64Kind(src *core.Image, output core.PixelFormat) (*core.Image, error) {
	if err := src.ValidateWithPixels(); err != nil {
		return nil, err
	}
	idx, err := rgba64Indexes(output)
	if err != nil {
		return nil, err
	}

	out := src.CloneSkeleton()
	out.PixelFormat = output
	out.Palette = nil

	bpl, err := core.BytesPerLine(out.Width, output)
	if err != nil {
		return nil, err
	}
	out.BytesPerLine = bpl
	out.Pixels = make([]byte, out.Height*bpl)

	if err := convertRows(src, idx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToRGBA64KindInPlace converts img to the given canonical 64-bit output
// format inside its already-allocated pixel buffer. The target must fit:
// its bit depth must not exceed the source's, otherwise the conversion
// fails with an unsupported-pixel-format error rather than reallocating.
// The original row stride is kept.
func ToRGBA64KindInPlace(img *core.Image, output core.PixelFormat) error {
	const op = "convert.in-place"

	if err := img.ValidateWithPixels(); err != nil {
		return err
	}
	idx, err := rgba64Indexes(output)
	if err != nil {
		return err
	}
	if img.PixelFormat == output {
		return nil
	}

	srcBits, err := core.BitsPerPixel(img.PixelFormat)
	if err != nil {
		return err
	}
	outBits, err := core.BitsPerPixel(output)
	if err != nil {
		return err
	}
	if srcBits < outBits {
		return apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, op,
			"conversion from %s to %s does not fit into the existing allocation",
			img.PixelFormat, output)
	}

	if err := convertRows(img, idx, img); err != nil {
		return err
	}
	img.PixelFormat = output
	img.Palette = nil
	return nil
}

// Convert normalizes src to the requested target format, allocating the
// result. 64-bit targets convert directly; 32-bit channel-permutation
// targets go through the 64-bit path and narrow each channel; converting
// to the source's own format copies the image.
func Convert(src *core.Image, output core.PixelFormat) (*core.Image, error) {
	if err := src.ValidateWithPixels(); err != nil {
		return nil, err
	}
	if src.PixelFormat == output {
		out := src.CloneSkeleton()
		out.Pixels = make([]byte, len(src.Pixels))
		copy(out.Pixels, src.Pixels)
		return out, nil
	}
	if _, err := rgba64Indexes(output); err == nil {
		return ToRGBA64Kind(src, output)
	}
	if _, ok := narrow32[output]; ok {
		return ToRGBA32Kind(src, output)
	}
	return nil, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, "convert",
		"conversion from %s to %s is not supported", src.PixelFormat, output)
}

// convertRows walks the source row by row through the per-format dispatch
// table. Source and destination strides are taken from each image's own
// record; the engine never assumes stride == width × bytes-per-pixel.
func convertRows(src *core.Image, idx channelIndexes, dst *core.Image) error {
	conv, ok := rowConverters[src.PixelFormat]
	if !ok {
		return apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, "convert",
			"conversion from %s to a BPP64-RGBA kind is not supported", src.PixelFormat)
	}
	for row := 0; row < src.Height; row++ {
		in := src.Pixels[row*src.BytesPerLine:]
		out := dst.Pixels[row*dst.BytesPerLine:]
		if err := conv(src, idx, in, out); err != nil {
			return err
		}
	}
	return nil
}

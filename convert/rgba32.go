package convert

import (
	"encoding/binary"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// narrow32 maps each 32-bit channel-permutation target onto the 64-bit
// format with the same channel order.
var narrow32 = map[core.PixelFormat]core.PixelFormat{
	core.BPP32RGBX: core.BPP64RGBX,
	core.BPP32BGRX: core.BPP64BGRX,
	core.BPP32XRGB: core.BPP64XRGB,
	core.BPP32XBGR: core.BPP64XBGR,
	core.BPP32RGBA: core.BPP64RGBA,
	core.BPP32BGRA: core.BPP64BGRA,
	core.BPP32ARGB: core.BPP64ARGB,
	core.BPP32ABGR: core.BPP64ABGR,
}

// ToRGBA32Kind converts src into a newly allocated image of the given
// 32-bit channel-permutation format. The conversion goes through the exact
// 64-bit path and then narrows each channel to its high byte, the inverse
// of the ×257 promotion.
func ToRGBA32Kind(src *core.Image, output core.PixelFormat) (*core.Image, error) {
	wideFormat, ok := narrow32[output]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat,
			"convert.rgba32", "conversion to %s is not supported, use a BPP32-RGBA-like output pixel format", output)
	}

	wide, err := ToRGBA64Kind(src, wideFormat)
	if err != nil {
		return nil, err
	}

	out := wide.CloneSkeleton()
	out.PixelFormat = output
	bpl, err := core.BytesPerLine(out.Width, output)
	if err != nil {
		return nil, err
	}
	out.BytesPerLine = bpl
	out.Pixels = make([]byte, out.Height*bpl)

	for row := 0; row < wide.Height; row++ {
		in := wide.Pixels[row*wide.BytesPerLine:]
		dst := out.Pixels[row*out.BytesPerLine:]
		for ch := 0; ch < wide.Width*4; ch++ {
			dst[ch] = byte(binary.LittleEndian.Uint16(in[ch*2:]) >> 8)
		}
	}
	return out, nil
}

package convert

import (
	"encoding/binary"

	"github.com/happy-sea-fox/sail/core"
)

// rgba64 is one fully resolved pixel with 16-bit channels.
type rgba64 struct {
	r, g, b, a uint16
}

const opaque = 65535

func spreadGray8(v uint8) rgba64 {
	c := uint16(v) * 257
	return rgba64{r: c, g: c, b: c, a: opaque}
}

func spreadGray16(v uint16) rgba64 {
	return rgba64{r: v, g: v, b: v, a: opaque}
}

// fillPixel writes one 4-slot output pixel. Alpha-less targets get their
// padding slot written fully opaque.
func fillPixel(out []byte, idx channelIndexes, px rgba64) {
	binary.LittleEndian.PutUint16(out[2*idx.r:], px.r)
	binary.LittleEndian.PutUint16(out[2*idx.g:], px.g)
	binary.LittleEndian.PutUint16(out[2*idx.b:], px.b)
	if idx.a >= 0 {
		binary.LittleEndian.PutUint16(out[2*idx.a:], px.a)
	} else {
		pad := 6 - idx.r - idx.g - idx.b
		binary.LittleEndian.PutUint16(out[2*pad:], opaque)
	}
}

// rowConverter turns one source row into one canonical 64-bit row.
// Each entry of the dispatch table handles exactly one source format.
type rowConverter func(src *core.Image, idx channelIndexes, in, out []byte) error

var rowConverters = map[core.PixelFormat]rowConverter{
	core.BPP1Indexed:   bitPacked(1),
	core.BPP2Indexed:   bitPacked(2),
	core.BPP4Indexed:   bitPacked(4),
	core.BPP8Indexed:   wholeByte,
	core.BPP1Grayscale: bitPacked(1),
	core.BPP2Grayscale: bitPacked(2),
	core.BPP4Grayscale: bitPacked(4),
	core.BPP8Grayscale: wholeByte,

	core.BPP16Grayscale:      gray16,
	core.BPP16GrayscaleAlpha: grayAlpha8,
	core.BPP32GrayscaleAlpha: grayAlpha16,

	core.BPP16RGB555: packed555(0, 5, 10),
	core.BPP16BGR555: packed555(10, 5, 0),

	core.BPP24RGB: rgb8Kind(3, 0, 1, 2),
	core.BPP24BGR: rgb8Kind(3, 2, 1, 0),
	core.BPP48RGB: rgb16Kind(3, 0, 1, 2),
	core.BPP48BGR: rgb16Kind(3, 2, 1, 0),

	core.BPP32RGBX: rgb8Kind(4, 0, 1, 2),
	core.BPP32BGRX: rgb8Kind(4, 2, 1, 0),
	core.BPP32XRGB: rgb8Kind(4, 1, 2, 3),
	core.BPP32XBGR: rgb8Kind(4, 3, 2, 1),
	core.BPP32RGBA: rgba8Kind(0, 1, 2, 3),
	core.BPP32BGRA: rgba8Kind(2, 1, 0, 3),
	core.BPP32ARGB: rgba8Kind(1, 2, 3, 0),
	core.BPP32ABGR: rgba8Kind(3, 2, 1, 0),

	core.BPP64RGBX: rgb16Kind(4, 0, 1, 2),
	core.BPP64BGRX: rgb16Kind(4, 2, 1, 0),
	core.BPP64XRGB: rgb16Kind(4, 1, 2, 3),
	core.BPP64XBGR: rgb16Kind(4, 3, 2, 1),
	core.BPP64RGBA: rgba16Kind(0, 1, 2, 3),
	core.BPP64BGRA: rgba16Kind(2, 1, 0, 3),
	core.BPP64ARGB: rgba16Kind(1, 2, 3, 0),
	core.BPP64ABGR: rgba16Kind(3, 2, 1, 0),

	core.BPP32CMYK:  cmyk32,
	core.BPP24YCbCr: ycbcr24,
}

// bitPacked unpacks 1/2/4-bit samples, MSB-first within each byte. Indexed
// samples resolve through the palette; grayscale samples spread linearly to
// the full 16-bit range (1-bit: 0/255, 2-bit: ×85, 4-bit: ×17, then ×257).
func bitPacked(bits int) rowConverter {
	mask := byte(1<<bits - 1)

	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		indexed := src.PixelFormat.IsIndexed()
		pixel := 0
		pos := 0

		for pixel < src.Width {
			b := in[pos]
			pos++

			for shift := 8 - bits; shift >= 0 && pixel < src.Width; shift -= bits {
				sample := (b >> shift) & mask

				var px rgba64
				if indexed {
					var err error
					px, err = paletteRGBA64(src.Palette, uint32(sample))
					if err != nil {
						return err
					}
				} else {
					switch bits {
					case 1:
						if sample == 0 {
							px = spreadGray8(0)
						} else {
							px = spreadGray8(255)
						}
					case 2:
						px = spreadGray8(sample * 85)
					default:
						px = spreadGray8(sample * 17)
					}
				}

				fillPixel(out[pixel*8:], idx, px)
				pixel++
			}
		}
		return nil
	}
}

// wholeByte handles 8-bit indexed and 8-bit grayscale.
func wholeByte(src *core.Image, idx channelIndexes, in, out []byte) error {
	indexed := src.PixelFormat.IsIndexed()

	for pixel := 0; pixel < src.Width; pixel++ {
		var px rgba64
		if indexed {
			var err error
			px, err = paletteRGBA64(src.Palette, uint32(in[pixel]))
			if err != nil {
				return err
			}
		} else {
			px = spreadGray8(in[pixel])
		}
		fillPixel(out[pixel*8:], idx, px)
	}
	return nil
}

func gray16(src *core.Image, idx channelIndexes, in, out []byte) error {
	for pixel := 0; pixel < src.Width; pixel++ {
		v := binary.LittleEndian.Uint16(in[pixel*2:])
		fillPixel(out[pixel*8:], idx, spreadGray16(v))
	}
	return nil
}

func grayAlpha8(src *core.Image, idx channelIndexes, in, out []byte) error {
	for pixel := 0; pixel < src.Width; pixel++ {
		px := spreadGray8(in[pixel*2])
		px.a = uint16(in[pixel*2+1]) * 257
		fillPixel(out[pixel*8:], idx, px)
	}
	return nil
}

func grayAlpha16(src *core.Image, idx channelIndexes, in, out []byte) error {
	for pixel := 0; pixel < src.Width; pixel++ {
		px := spreadGray16(binary.LittleEndian.Uint16(in[pixel*4:]))
		px.a = binary.LittleEndian.Uint16(in[pixel*4+2:])
		fillPixel(out[pixel*8:], idx, px)
	}
	return nil
}

// packed555 unpacks 15-bit packed RGB: 5 bits per channel, left-shifted by
// 3 and then scaled ×257.
func packed555(rshift, gshift, bshift uint) rowConverter {
	unpack := func(v uint16, shift uint) uint16 {
		return (((v >> shift) & 0x1f) << 3) * 257
	}

	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		for pixel := 0; pixel < src.Width; pixel++ {
			v := binary.LittleEndian.Uint16(in[pixel*2:])
			fillPixel(out[pixel*8:], idx, rgba64{
				r: unpack(v, rshift),
				g: unpack(v, gshift),
				b: unpack(v, bshift),
				a: opaque,
			})
		}
		return nil
	}
}

// rgb8Kind handles alpha-less layouts with 8-bit channels: 24-bit RGB/BGR
// (step 3) and 32-bit padded RGBX permutations (step 4).
func rgb8Kind(step, ri, gi, bi int) rowConverter {
	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		for pixel := 0; pixel < src.Width; pixel++ {
			p := in[pixel*step:]
			fillPixel(out[pixel*8:], idx, rgba64{
				r: uint16(p[ri]) * 257,
				g: uint16(p[gi]) * 257,
				b: uint16(p[bi]) * 257,
				a: opaque,
			})
		}
		return nil
	}
}

// rgba8Kind handles 32-bit layouts with 8-bit channels and alpha.
func rgba8Kind(ri, gi, bi, ai int) rowConverter {
	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		for pixel := 0; pixel < src.Width; pixel++ {
			p := in[pixel*4:]
			fillPixel(out[pixel*8:], idx, rgba64{
				r: uint16(p[ri]) * 257,
				g: uint16(p[gi]) * 257,
				b: uint16(p[bi]) * 257,
				a: uint16(p[ai]) * 257,
			})
		}
		return nil
	}
}

// rgb16Kind handles alpha-less layouts with 16-bit channels: 48-bit RGB/BGR
// (step 3) and 64-bit padded RGBX permutations (step 4).
func rgb16Kind(step, ri, gi, bi int) rowConverter {
	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		for pixel := 0; pixel < src.Width; pixel++ {
			p := in[pixel*step*2:]
			fillPixel(out[pixel*8:], idx, rgba64{
				r: binary.LittleEndian.Uint16(p[ri*2:]),
				g: binary.LittleEndian.Uint16(p[gi*2:]),
				b: binary.LittleEndian.Uint16(p[bi*2:]),
				a: opaque,
			})
		}
		return nil
	}
}

// rgba16Kind handles 64-bit layouts with 16-bit channels and alpha.
func rgba16Kind(ri, gi, bi, ai int) rowConverter {
	return func(src *core.Image, idx channelIndexes, in, out []byte) error {
		for pixel := 0; pixel < src.Width; pixel++ {
			p := in[pixel*8:]
			fillPixel(out[pixel*8:], idx, rgba64{
				r: binary.LittleEndian.Uint16(p[ri*2:]),
				g: binary.LittleEndian.Uint16(p[gi*2:]),
				b: binary.LittleEndian.Uint16(p[bi*2:]),
				a: binary.LittleEndian.Uint16(p[ai*2:]),
			})
		}
		return nil
	}
}

func cmyk32(src *core.Image, idx channelIndexes, in, out []byte) error {
	for pixel := 0; pixel < src.Width; pixel++ {
		p := in[pixel*4:]
		r, g, b := cmykToRGB(p[0], p[1], p[2], p[3])
		fillPixel(out[pixel*8:], idx, rgba64{
			r: uint16(r) * 257,
			g: uint16(g) * 257,
			b: uint16(b) * 257,
			a: opaque,
		})
	}
	return nil
}

func ycbcr24(src *core.Image, idx channelIndexes, in, out []byte) error {
	for pixel := 0; pixel < src.Width; pixel++ {
		p := in[pixel*3:]
		r, g, b := ycbcrToRGB(p[0], p[1], p[2])
		fillPixel(out[pixel*8:], idx, rgba64{
			r: uint16(r) * 257,
			g: uint16(g) * 257,
			b: uint16(b) * 257,
			a: opaque,
		})
	}
	return nil
}

// Package png is the built-in PNG codec, backed by the standard library
// image/png. It covers 8- and 16-bit grayscale, indexed, and RGBA pixels.
package png

import (
	"image"
	"image/draw"
	stdpng "image/png"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
	"github.com/happy-sea-fox/sail/utils"
)

// Declaration is the codec's capability declaration.
const Declaration = `
[codec]
layout=2
version=1.0.0
name=png
description=Portable Network Graphics
extensions=png
mime-types=image/png

[read-features]
input-pixel-formats=BPP8-INDEXED;BPP8-GRAYSCALE;BPP16-GRAYSCALE;BPP32-RGBA;BPP64-RGBA
output-pixel-formats=BPP8-INDEXED;BPP8-GRAYSCALE;BPP16-GRAYSCALE;BPP32-RGBA;BPP64-RGBA
preferred-output-pixel-format=BPP32-RGBA
features=STATIC

[write-features]
input-pixel-formats=BPP8-GRAYSCALE;BPP16-GRAYSCALE;BPP8-INDEXED;BPP32-RGBA;BPP64-RGBA
output-pixel-formats=BPP8-GRAYSCALE;BPP16-GRAYSCALE;BPP8-INDEXED;BPP32-RGBA;BPP64-RGBA
preferred-output-pixel-format=BPP32-RGBA
features=STATIC
properties=INTERLACED
interlaced-passes=7
compression-types=DEFLATE
preferred-compression-type=DEFLATE
compression-min=0
compression-max=9
compression-default=6
`

// New creates a fresh codec state.
func New() core.Codec { return &Codec{} }

// Codec holds the per-stream codec state.
type Codec struct {
	load *loadState
	save *saveState
}

func (c *Codec) Name() string { return "png" }

type loadState struct {
	opts      *core.LoadOptions
	st        stream.Stream
	frameDone bool
	decoded   image.Image
	format    core.PixelFormat
}

type saveState struct {
	opts         *core.SaveOptions
	st           stream.Stream
	frameWritten bool
}

func (c *Codec) LoadInit(st stream.Stream, opts *core.LoadOptions) error {
	c.load = &loadState{opts: opts, st: st}
	return nil
}

func (c *Codec) LoadSeekNextFrame() (*core.Image, error) {
	const op = "png.load.seek-next-frame"

	if c.load == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	if c.load.frameDone {
		return nil, apperrors.Newf(apperrors.CodeNoMoreFrames, op, "single-frame source consumed")
	}
	c.load.frameDone = true

	decoded, err := stdpng.Decode(c.load.st)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBrokenImage, op, err)
	}

	var (
		format  core.PixelFormat
		palette *core.Palette
	)
	switch im := decoded.(type) {
	case *image.Gray:
		format = core.BPP8Grayscale
	case *image.Gray16:
		format = core.BPP16Grayscale
	case *image.NRGBA:
		format = core.BPP32RGBA
	case *image.NRGBA64:
		format = core.BPP64RGBA
	case *image.Paletted:
		format = core.BPP8Indexed
		palette = utils.ColorsToPalette(im.Palette)
	default:
		// Premultiplied or exotic layouts are flattened to NRGBA.
		b := decoded.Bounds()
		flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(flat, flat.Bounds(), decoded, b.Min, draw.Src)
		decoded = flat
		format = core.BPP32RGBA
	}

	c.load.decoded = decoded
	c.load.format = format

	bounds := decoded.Bounds()
	return &core.Image{
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		PixelFormat:  format,
		BytesPerLine: 1, // recomputed by the driver
		Palette:      palette,
		Source: &core.SourceImage{
			PixelFormat: format,
			Compression: core.CompressionDeflate,
		},
	}, nil
}

func (c *Codec) LoadReadFrame(img *core.Image) error {
	const op = "png.load.read-frame"

	if c.load == nil || c.load.decoded == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}

	switch im := c.load.decoded.(type) {
	case *image.Gray:
		copyRows(img, im.Pix, im.Stride, img.Width, false)
	case *image.Gray16:
		copyRows(img, im.Pix, im.Stride, img.Width*2, true)
	case *image.NRGBA:
		copyRows(img, im.Pix, im.Stride, img.Width*4, false)
	case *image.NRGBA64:
		copyRows(img, im.Pix, im.Stride, img.Width*8, true)
	case *image.Paletted:
		copyRows(img, im.Pix, im.Stride, img.Width, false)
	default:
		return apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, op,
			"unexpected decoded image type %T", im)
	}
	c.load.decoded = nil
	return nil
}

// copyRows copies rowBytes per row from a stdlib pixel buffer into the
// canonical image, swapping 16-bit samples from big to little endian when
// swap16 is set.
func copyRows(img *core.Image, pix []byte, stride, rowBytes int, swap16 bool) {
	for y := 0; y < img.Height; y++ {
		dst := img.Pixels[y*img.BytesPerLine:]
		src := pix[y*stride : y*stride+rowBytes]
		if !swap16 {
			copy(dst, src)
			continue
		}
		for i := 0; i+1 < rowBytes; i += 2 {
			dst[i] = src[i+1]
			dst[i+1] = src[i]
		}
	}
}

func (c *Codec) LoadFinish() error {
	if c.load == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "png.load.finish", apperrors.ErrStateFinished)
	}
	c.load = nil
	return nil
}

func (c *Codec) SaveInit(st stream.Stream, opts *core.SaveOptions) error {
	const op = "png.save.init"

	if opts.Compression != core.CompressionUnknown && opts.Compression != core.CompressionDeflate {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"only DEFLATE compression is supported, got %s", opts.Compression)
	}
	c.save = &saveState{opts: opts, st: st}
	return nil
}

func (c *Codec) SaveSeekNextFrame(img *core.Image) error {
	const op = "png.save.seek-next-frame"

	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	if c.save.frameWritten {
		return apperrors.Newf(apperrors.CodeNoMoreFrames, op, "PNG stores a single frame")
	}
	switch img.PixelFormat {
	case core.BPP8Grayscale, core.BPP16Grayscale, core.BPP8Indexed, core.BPP32RGBA, core.BPP64RGBA:
		return nil
	}
	return apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, op,
		"%s is not supported for writing", img.PixelFormat)
}

func (c *Codec) SaveWriteFrame(img *core.Image) error {
	const op = "png.save.write-frame"

	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	c.save.frameWritten = true

	out, err := toStdImage(img)
	if err != nil {
		return err
	}
	if err := stdpng.Encode(c.save.st, out); err != nil {
		return apperrors.Wrap(apperrors.CodeUnderlyingCodec, op, err)
	}
	return nil
}

func toStdImage(img *core.Image) (image.Image, error) {
	rect := image.Rect(0, 0, img.Width, img.Height)

	switch img.PixelFormat {
	case core.BPP8Grayscale:
		out := image.NewGray(rect)
		fillRows(out.Pix, out.Stride, img, img.Width, false)
		return out, nil
	case core.BPP16Grayscale:
		out := image.NewGray16(rect)
		fillRows(out.Pix, out.Stride, img, img.Width*2, true)
		return out, nil
	case core.BPP8Indexed:
		colors, err := utils.PaletteToColors(img.Palette)
		if err != nil {
			return nil, err
		}
		out := image.NewPaletted(rect, colors)
		fillRows(out.Pix, out.Stride, img, img.Width, false)
		return out, nil
	case core.BPP32RGBA:
		out := image.NewNRGBA(rect)
		fillRows(out.Pix, out.Stride, img, img.Width*4, false)
		return out, nil
	case core.BPP64RGBA:
		out := image.NewNRGBA64(rect)
		fillRows(out.Pix, out.Stride, img, img.Width*8, true)
		return out, nil
	}
	return nil, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, "png.save",
		"%s is not supported for writing", img.PixelFormat)
}

// fillRows is the inverse of copyRows.
func fillRows(pix []byte, stride int, img *core.Image, rowBytes int, swap16 bool) {
	for y := 0; y < img.Height; y++ {
		dst := pix[y*stride:]
		src := img.Pixels[y*img.BytesPerLine:]
		if !swap16 {
			copy(dst[:rowBytes], src)
			continue
		}
		for i := 0; i+1 < rowBytes; i += 2 {
			dst[i] = src[i+1]
			dst[i+1] = src[i]
		}
	}
}

func (c *Codec) SaveFinish() error {
	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "png.save.finish", apperrors.ErrStateFinished)
	}
	s := c.save
	c.save = nil
	return s.st.Flush()
}

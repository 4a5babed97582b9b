// Package gif is the built-in GIF codec, backed by the standard library
// image/gif. It exercises the full multi-frame contract: indexed pixels,
// palettes and per-frame delays.
package gif

import (
	"image"
	stdgif "image/gif"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
	"github.com/happy-sea-fox/sail/utils"
)

// Declaration is the codec's capability declaration, parsed through
// codecinfo like any external codec's.
const Declaration = `
[codec]
layout=2
version=1.0.0
name=gif
description=Graphics Interchange Format
extensions=gif
mime-types=image/gif

[read-features]
input-pixel-formats=BPP8-INDEXED
output-pixel-formats=BPP8-INDEXED;BPP32-RGBA;BPP64-RGBA
preferred-output-pixel-format=BPP32-RGBA
features=STATIC;ANIMATED

[write-features]
input-pixel-formats=BPP8-INDEXED
output-pixel-formats=BPP8-INDEXED
preferred-output-pixel-format=BPP8-INDEXED
features=STATIC;ANIMATED
compression-types=LZW
preferred-compression-type=LZW
`

// New creates a fresh codec state.
func New() core.Codec { return &Codec{} }

// Codec holds the per-stream codec state.
type Codec struct {
	load *loadState
	save *saveState
}

func (c *Codec) Name() string { return "gif" }

type loadState struct {
	opts    *core.LoadOptions
	g       *stdgif.GIF
	frame   int
	current *image.Paletted
}

type saveState struct {
	opts *core.SaveOptions
	st   stream.Stream
	out  *stdgif.GIF
}

func (c *Codec) LoadInit(st stream.Stream, opts *core.LoadOptions) error {
	g, err := stdgif.DecodeAll(st)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeBrokenImage, "gif.load.init", err)
	}
	c.load = &loadState{opts: opts, g: g}
	return nil
}

func (c *Codec) LoadSeekNextFrame() (*core.Image, error) {
	const op = "gif.load.seek-next-frame"

	if c.load == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	if c.load.frame >= len(c.load.g.Image) {
		return nil, apperrors.Newf(apperrors.CodeNoMoreFrames, op, "all %d frames consumed", len(c.load.g.Image))
	}

	p := c.load.g.Image[c.load.frame]

	img := &core.Image{
		Width:        p.Rect.Dx(),
		Height:       p.Rect.Dy(),
		PixelFormat:  core.BPP8Indexed,
		BytesPerLine: p.Rect.Dx(), // recomputed by the driver
		Palette:      utils.ColorsToPalette(p.Palette),
		Source: &core.SourceImage{
			PixelFormat: core.BPP8Indexed,
			Compression: core.CompressionLZW,
		},
	}
	if c.load.frame < len(c.load.g.Delay) {
		img.DelayMs = c.load.g.Delay[c.load.frame] * 10
	}

	c.load.current = p
	c.load.frame++
	return img, nil
}

func (c *Codec) LoadReadFrame(img *core.Image) error {
	const op = "gif.load.read-frame"

	if c.load == nil || c.load.current == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}

	p := c.load.current
	for y := 0; y < img.Height; y++ {
		copy(img.Pixels[y*img.BytesPerLine:], p.Pix[y*p.Stride:y*p.Stride+img.Width])
	}
	c.load.current = nil
	return nil
}

func (c *Codec) LoadFinish() error {
	if c.load == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "gif.load.finish", apperrors.ErrStateFinished)
	}
	c.load = nil
	return nil
}

func (c *Codec) SaveInit(st stream.Stream, opts *core.SaveOptions) error {
	const op = "gif.save.init"

	if opts.Compression != core.CompressionUnknown && opts.Compression != core.CompressionLZW {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"only LZW compression is supported, got %s", opts.Compression)
	}
	c.save = &saveState{opts: opts, st: st, out: &stdgif.GIF{}}
	return nil
}

func (c *Codec) SaveSeekNextFrame(img *core.Image) error {
	const op = "gif.save.seek-next-frame"

	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	if img.PixelFormat != core.BPP8Indexed {
		return apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, op,
			"%s is not supported for writing, convert to BPP8-INDEXED first", img.PixelFormat)
	}
	if img.Palette == nil {
		return apperrors.Newf(apperrors.CodeBrokenImage, op, "indexed image carries no palette")
	}
	return nil
}

func (c *Codec) SaveWriteFrame(img *core.Image) error {
	const op = "gif.save.write-frame"

	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}

	colors, err := utils.PaletteToColors(img.Palette)
	if err != nil {
		return err
	}

	p := image.NewPaletted(image.Rect(0, 0, img.Width, img.Height), colors)
	for y := 0; y < img.Height; y++ {
		copy(p.Pix[y*p.Stride:], img.Pixels[y*img.BytesPerLine:y*img.BytesPerLine+img.Width])
	}

	c.save.out.Image = append(c.save.out.Image, p)
	c.save.out.Delay = append(c.save.out.Delay, img.DelayMs/10)
	return nil
}

func (c *Codec) SaveFinish() error {
	const op = "gif.save.finish"

	if c.save == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrStateFinished)
	}
	s := c.save
	c.save = nil

	if err := stdgif.EncodeAll(s.st, s.out); err != nil {
		return apperrors.Wrap(apperrors.CodeUnderlyingCodec, op, err)
	}
	return s.st.Flush()
}

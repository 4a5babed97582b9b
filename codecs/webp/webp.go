// Package webp is the built-in WebP codec. It decodes via
// golang.org/x/image/webp; the format is read-only here since the
// pure Go ecosystem has no encoder.
package webp

import (
	"image"
	"image/draw"

	xwebp "golang.org/x/image/webp"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
)

// Declaration is the codec's capability declaration. The write section
// is intentionally empty: the codec cannot encode.
const Declaration = `
[codec]
layout=2
version=1.0.0
name=webp
description=WebP
extensions=webp
mime-types=image/webp

[read-features]
input-pixel-formats=BPP24-YCBCR;BPP32-RGBA
output-pixel-formats=BPP32-RGBA;BPP64-RGBA
preferred-output-pixel-format=BPP32-RGBA
features=STATIC

[write-features]
`

// New creates a fresh codec state.
func New() core.Codec { return &Codec{} }

// Codec holds the per-stream codec state.
type Codec struct {
	load *loadState
}

func (c *Codec) Name() string { return "webp" }

type loadState struct {
	opts      *core.LoadOptions
	st        stream.Stream
	frameDone bool
	flat      *image.NRGBA
	source    *core.SourceImage
}

func (c *Codec) LoadInit(st stream.Stream, opts *core.LoadOptions) error {
	c.load = &loadState{opts: opts, st: st}
	return nil
}

func (c *Codec) LoadSeekNextFrame() (*core.Image, error) {
	const op = "webp.load.seek-next-frame"

	if c.load == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	if c.load.frameDone {
		return nil, apperrors.Newf(apperrors.CodeNoMoreFrames, op, "single-frame source consumed")
	}
	c.load.frameDone = true

	decoded, err := xwebp.Decode(c.load.st)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBrokenImage, op, err)
	}

	source := &core.SourceImage{
		PixelFormat: core.BPP32RGBA,
		Compression: core.CompressionVP8,
	}
	switch im := decoded.(type) {
	case *image.YCbCr:
		source.PixelFormat = core.BPP24YCbCr
		source.ChromaSubsampling = subsamplingName(im.SubsampleRatio)
	case *image.NYCbCrA:
		source.PixelFormat = core.BPP24YCbCr
		source.ChromaSubsampling = subsamplingName(im.SubsampleRatio)
	}

	b := decoded.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), decoded, b.Min, draw.Src)

	c.load.flat = flat
	c.load.source = source

	return &core.Image{
		Width:        b.Dx(),
		Height:       b.Dy(),
		PixelFormat:  core.BPP32RGBA,
		BytesPerLine: 1, // recomputed by the driver
		Source:       source,
	}, nil
}

func subsamplingName(r image.YCbCrSubsampleRatio) string {
	switch r {
	case image.YCbCrSubsampleRatio444:
		return "4:4:4"
	case image.YCbCrSubsampleRatio422:
		return "4:2:2"
	case image.YCbCrSubsampleRatio420:
		return "4:2:0"
	case image.YCbCrSubsampleRatio440:
		return "4:4:0"
	case image.YCbCrSubsampleRatio411:
		return "4:1:1"
	case image.YCbCrSubsampleRatio410:
		return "4:1:0"
	}
	return ""
}

func (c *Codec) LoadReadFrame(img *core.Image) error {
	const op = "webp.load.read-frame"

	if c.load == nil || c.load.flat == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrOutOfOrderCall)
	}
	flat := c.load.flat
	rowBytes := img.Width * 4
	for y := 0; y < img.Height; y++ {
		copy(img.Pixels[y*img.BytesPerLine:], flat.Pix[y*flat.Stride:y*flat.Stride+rowBytes])
	}
	c.load.flat = nil
	return nil
}

func (c *Codec) LoadFinish() error {
	if c.load == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "webp.load.finish", apperrors.ErrStateFinished)
	}
	c.load = nil
	return nil
}

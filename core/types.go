package core

import apperrors "github.com/happy-sea-fox/sail/errors"

// ResolutionUnit qualifies Resolution densities.
type ResolutionUnit int

const (
	ResolutionUnitUnknown ResolutionUnit = iota
	ResolutionUnitMicrometer
	ResolutionUnitCentimeter
	ResolutionUnitMeter
	ResolutionUnitInch
)

// Resolution holds the physical pixel density of an image.
type Resolution struct {
	Unit ResolutionUnit
	X    float64
	Y    float64
}

// Palette stores raw palette entries for indexed pixel formats.
// Len(Data) is ColorCount × bytes-per-entry(PixelFormat).
type Palette struct {
	PixelFormat PixelFormat
	ColorCount  int
	Data        []byte
}

// Clone returns a deep copy of the palette.
func (p *Palette) Clone() *Palette {
	if p == nil {
		return nil
	}
	data := make([]byte, len(p.Data))
	copy(data, p.Data)
	return &Palette{PixelFormat: p.PixelFormat, ColorCount: p.ColorCount, Data: data}
}

// SourceImage preserves what was actually stored on disk, separately from
// the canonical in-memory pixel format, so callers can inspect the original
// encoding after normalization.
type SourceImage struct {
	PixelFormat       PixelFormat
	Compression       Compression
	ChromaSubsampling string // e.g. "4:2:0"; empty when not applicable
	Interlaced        bool
}

// Image is the canonical in-memory representation passed between the
// registry, the lifecycle driver and the conversion engine. It owns its
// pixel buffer and palette exclusively.
type Image struct {
	Width  int
	Height int

	// Canonical pixel format of Pixels.
	PixelFormat PixelFormat

	// Row stride in bytes. Computed from Width and PixelFormat by the
	// lifecycle driver, never trusted from a codec.
	BytesPerLine int

	// Height × BytesPerLine bytes.
	Pixels []byte

	// Only set for indexed pixel formats.
	Palette *Palette

	// Original on-disk encoding; nil when the codec reports none.
	Source *SourceImage

	Resolution *Resolution

	// Frame delay in milliseconds for animated sources; 0 otherwise.
	DelayMs int
}

// Validate checks the invariants every populated image must hold.
func (img *Image) Validate() error {
	const op = "image.validate"
	if img == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrNilImage)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"invalid dimensions %dx%d", img.Width, img.Height)
	}
	if img.PixelFormat == PixelFormatUnknown {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op, "unknown pixel format")
	}
	if img.BytesPerLine <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"invalid bytes per line %d", img.BytesPerLine)
	}
	return nil
}

// ValidateWithPixels is Validate plus the pixel buffer presence check.
func (img *Image) ValidateWithPixels() error {
	if err := img.Validate(); err != nil {
		return err
	}
	if len(img.Pixels) < img.Height*img.BytesPerLine {
		return apperrors.Newf(apperrors.CodeInvalidArgument, "image.validate",
			"pixel buffer is %d bytes, need %d", len(img.Pixels), img.Height*img.BytesPerLine)
	}
	return nil
}

// CloneSkeleton copies everything except the pixel buffer.
func (img *Image) CloneSkeleton() *Image {
	out := &Image{
		Width:        img.Width,
		Height:       img.Height,
		PixelFormat:  img.PixelFormat,
		BytesPerLine: img.BytesPerLine,
		Palette:      img.Palette.Clone(),
		DelayMs:      img.DelayMs,
	}
	if img.Source != nil {
		src := *img.Source
		out.Source = &src
	}
	if img.Resolution != nil {
		res := *img.Resolution
		out.Resolution = &res
	}
	return out
}

// LoadOptions controls a single load operation. The lifecycle driver deep
// copies it, so the caller's value stays independently mutable.
type LoadOptions struct {
	// Canonical pixel format the caller wants frames normalized to.
	// PixelFormatUnknown means "keep the codec's preferred output".
	OutputPixelFormat PixelFormat
}

// Clone returns a deep copy.
func (o *LoadOptions) Clone() *LoadOptions {
	if o == nil {
		return &LoadOptions{}
	}
	cp := *o
	return &cp
}

// SaveOptions controls a single save operation. The lifecycle driver deep
// copies it, so the caller's value stays independently mutable.
type SaveOptions struct {
	Compression      Compression
	CompressionLevel int
	Interlaced       bool
}

// Clone returns a deep copy.
func (o *SaveOptions) Clone() *SaveOptions {
	if o == nil {
		return &SaveOptions{}
	}
	cp := *o
	return &cp
}

package driver

import (
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
)

// Loader drives one load operation over one open stream. A Loader is
// exclusively owned by the goroutine that opened it.
type Loader struct {
	codec core.ReadCodec
	state state

	// Frame returned by the last NextFrame call; ReadFrame must be handed
	// exactly this image.
	pending *core.Image
}

// NewLoader wraps a fresh read-codec state.
func NewLoader(codec core.ReadCodec) *Loader {
	return &Loader{codec: codec}
}

// Init opens the stream with the codec. The options are deep copied, so the
// caller's value stays independently mutable. On failure the loader remains
// usable for a fresh Init; the codec must leave no allocated state behind.
func (l *Loader) Init(st stream.Stream, opts *core.LoadOptions) error {
	const op = "driver.load.init"

	if l.state != stateCreated {
		return orderError(op, l.state)
	}
	if st == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrNilStream)
	}

	if err := l.codec.LoadInit(st, opts.Clone()); err != nil {
		return err
	}
	l.state = stateInitialized
	return nil
}

// NextFrame advances to the next frame and returns its descriptor with the
// row stride recomputed from width and pixel format (never trusted from the
// codec) and the pixel buffer allocated but not yet filled.
//
// Once the source is exhausted it returns a CodeNoMoreFrames error; stop
// iterating on it without treating it as a failure.
func (l *Loader) NextFrame() (*core.Image, error) {
	const op = "driver.load.next-frame"

	if l.state != stateInitialized && l.state != stateFrameRead {
		return nil, orderError(op, l.state)
	}

	img, err := l.codec.LoadSeekNextFrame()
	if err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBrokenImage, op, err)
	}

	bpl, err := core.BytesPerLine(img.Width, img.PixelFormat)
	if err != nil {
		return nil, err
	}
	img.BytesPerLine = bpl
	img.Pixels = make([]byte, img.Height*bpl)

	l.pending = img
	l.state = stateFrameReady
	return img, nil
}

// ReadFrame fills the pixel buffer of the descriptor previously returned by
// NextFrame. It must be called exactly once per NextFrame call.
func (l *Loader) ReadFrame(img *core.Image) error {
	const op = "driver.load.read-frame"

	if l.state != stateFrameReady {
		return orderError(op, l.state)
	}
	if img == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrNilImage)
	}
	if img != l.pending {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"image is not the frame returned by the last NextFrame call")
	}

	if err := l.codec.LoadReadFrame(img); err != nil {
		return err
	}
	l.pending = nil
	l.state = stateFrameRead
	return nil
}

// Finish releases codec-private state. Calling Finish twice fails cleanly.
func (l *Loader) Finish() error {
	const op = "driver.load.finish"

	if l.state == stateFinished {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrStateFinished)
	}
	l.state = stateFinished
	l.pending = nil
	return l.codec.LoadFinish()
}

package driver

import (
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
)

// Saver drives one save operation over one open stream, once per frame to
// encode. A Saver is exclusively owned by the goroutine that opened it.
type Saver struct {
	codec   core.WriteCodec
	state   state
	pending *core.Image
}

// NewSaver wraps a fresh write-codec state.
func NewSaver(codec core.WriteCodec) *Saver {
	return &Saver{codec: codec}
}

// Init opens the stream with the codec. The options are deep copied.
func (s *Saver) Init(st stream.Stream, opts *core.SaveOptions) error {
	const op = "driver.save.init"

	if s.state != stateCreated {
		return orderError(op, s.state)
	}
	if st == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrNilStream)
	}

	if err := s.codec.SaveInit(st, opts.Clone()); err != nil {
		return err
	}
	s.state = stateInitialized
	return nil
}

// NextFrame announces the next frame to encode. The codec negotiates
// dimensions and pixel format here; pixels are consumed by WriteFrame.
func (s *Saver) NextFrame(img *core.Image) error {
	const op = "driver.save.next-frame"

	if s.state != stateInitialized && s.state != stateFrameRead {
		return orderError(op, s.state)
	}
	if err := img.ValidateWithPixels(); err != nil {
		return err
	}

	if err := s.codec.SaveSeekNextFrame(img); err != nil {
		return err
	}
	s.pending = img
	s.state = stateFrameReady
	return nil
}

// WriteFrame encodes the frame announced by the last NextFrame call. It
// must be called exactly once per NextFrame call, with the same image.
func (s *Saver) WriteFrame(img *core.Image) error {
	const op = "driver.save.write-frame"

	if s.state != stateFrameReady {
		return orderError(op, s.state)
	}
	if img == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrNilImage)
	}
	if img != s.pending {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op,
			"image is not the frame announced by the last NextFrame call")
	}

	if err := s.codec.SaveWriteFrame(img); err != nil {
		return err
	}
	s.pending = nil
	s.state = stateFrameRead
	return nil
}

// Finish flushes and releases codec-private state. Calling Finish twice
// fails cleanly.
func (s *Saver) Finish() error {
	const op = "driver.save.finish"

	if s.state == stateFinished {
		return apperrors.New(apperrors.CodeInvalidArgument, op, apperrors.ErrStateFinished)
	}
	s.state = stateFinished
	s.pending = nil
	return s.codec.SaveFinish()
}

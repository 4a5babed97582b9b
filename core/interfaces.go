package core

import "github.com/happy-sea-fox/sail/stream"

// Codec is the executable side of a codec registration. A fresh instance is
// created per open stream; concrete codecs additionally implement ReadCodec,
// WriteCodec, or both.
type Codec interface {
	// Name reports the codec's declared name, e.g. "gif".
	Name() string
}

// CodecFactory creates a fresh, unopened codec state. The registry validates
// the created value against the directions its declaration claims.
type CodecFactory func() Codec

// ReadCodec is the four-phase load contract. Calls must follow
// LoadInit → (LoadSeekNextFrame → LoadReadFrame)* → LoadFinish; the
// lifecycle driver enforces this ordering, implementations only need to
// detect a repeated LoadFinish.
//
// LoadSeekNextFrame returns a CodeNoMoreFrames error once the source is
// exhausted. That is the expected iteration terminator, not a failure.
type ReadCodec interface {
	LoadInit(st stream.Stream, opts *LoadOptions) error
	LoadSeekNextFrame() (*Image, error)
	LoadReadFrame(img *Image) error
	LoadFinish() error
}

// WriteCodec is the four-phase save contract, driven once per frame:
// SaveInit → (SaveSeekNextFrame → SaveWriteFrame)* → SaveFinish.
type WriteCodec interface {
	SaveInit(st stream.Stream, opts *SaveOptions) error
	SaveSeekNextFrame(img *Image) error
	SaveWriteFrame(img *Image) error
	SaveFinish() error
}

// Logger is a minimal structured logging interface. Adapters for slog and
// zerolog live in the hooks package.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

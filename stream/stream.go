// Package stream defines the byte-stream contract codecs read from and
// write to, plus file and memory backed implementations.
package stream

import (
	"io"

	apperrors "github.com/happy-sea-fox/sail/errors"
)

// Stream is the abstract source/sink handed to codecs. Read and Write have
// io.Reader / io.Writer signatures, so a Stream can be passed directly to
// decoders built on the standard library.
//
// Seekability is not guaranteed beyond what each codec's documented
// requirements demand.
type Stream interface {
	// Read reads up to len(buf) bytes (tolerant read).
	Read(buf []byte) (int, error)

	// StrictRead fails unless exactly len(buf) bytes are read.
	StrictRead(buf []byte) error

	Write(buf []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Flush() error
	Close() error
}

// strictRead implements StrictRead on top of an io.Reader.
func strictRead(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return apperrors.Newf(apperrors.CodeBrokenImage, "stream.strict-read",
				"read %d of %d bytes: %w", n, len(buf), apperrors.ErrUnexpectedEOF)
		}
		return apperrors.Wrap(apperrors.CodeFileOpen, "stream.strict-read", err)
	}
	return nil
}

package stream

import (
	"bytes"
	"io"

	apperrors "github.com/happy-sea-fox/sail/errors"
)

// MemReader is a read-only Stream over an in-memory buffer.
type MemReader struct {
	r *bytes.Reader
}

// OpenMem opens data for reading. The buffer is not copied; the caller must
// keep it alive for the lifetime of the stream.
func OpenMem(data []byte) *MemReader {
	return &MemReader{r: bytes.NewReader(data)}
}

func (s *MemReader) Read(buf []byte) (int, error) { return s.r.Read(buf) }

func (s *MemReader) StrictRead(buf []byte) error { return strictRead(s.r, buf) }

func (s *MemReader) Write([]byte) (int, error) {
	return 0, apperrors.Newf(apperrors.CodeInvalidArgument, "stream.write",
		"stream is read-only")
}

func (s *MemReader) Seek(offset int64, whence int) (int64, error) {
	return s.r.Seek(offset, whence)
}

func (s *MemReader) Flush() error { return nil }
func (s *MemReader) Close() error { return nil }

// MemWriter is a growable, seekable in-memory Stream for encoding.
type MemWriter struct {
	buf []byte
	pos int
}

// CreateMem creates an empty memory stream for writing.
func CreateMem() *MemWriter { return &MemWriter{} }

// Bytes returns the written contents.
func (s *MemWriter) Bytes() []byte { return s.buf }

func (s *MemWriter) Read(buf []byte) (int, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	n := copy(buf, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *MemWriter) StrictRead(buf []byte) error { return strictRead(s, buf) }

func (s *MemWriter) Write(buf []byte) (int, error) {
	if need := s.pos + len(buf); need > len(s.buf) {
		if need > cap(s.buf) {
			grown := make([]byte, need, need*2)
			copy(grown, s.buf)
			s.buf = grown
		} else {
			s.buf = s.buf[:need]
		}
	}
	n := copy(s.buf[s.pos:], buf)
	s.pos += n
	return n, nil
}

func (s *MemWriter) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(s.pos) + offset
	case io.SeekEnd:
		pos = int64(len(s.buf)) + offset
	default:
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument, "stream.seek",
			"invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument, "stream.seek",
			"negative position %d", pos)
	}
	s.pos = int(pos)
	return pos, nil
}

func (s *MemWriter) Flush() error { return nil }
func (s *MemWriter) Close() error { return nil }

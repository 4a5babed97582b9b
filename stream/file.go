package stream

import (
	"bufio"
	"os"

	apperrors "github.com/happy-sea-fox/sail/errors"
)

// File is a Stream backed by an os.File.
type File struct {
	f *os.File
	w *bufio.Writer // nil for read-only streams
}

// OpenFile opens path for reading.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileOpen, "stream.open", err)
	}
	return &File{f: f}, nil
}

// CreateFile creates or truncates path for writing.
func CreateFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileOpen, "stream.create", err)
	}
	return &File{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *File) Read(buf []byte) (int, error) { return s.f.Read(buf) }

func (s *File) StrictRead(buf []byte) error { return strictRead(s.f, buf) }

func (s *File) Write(buf []byte) (int, error) {
	if s.w == nil {
		return s.f.Write(buf)
	}
	return s.w.Write(buf)
}

func (s *File) Seek(offset int64, whence int) (int64, error) {
	if s.w != nil {
		if err := s.w.Flush(); err != nil {
			return 0, apperrors.Wrap(apperrors.CodeFileOpen, "stream.seek", err)
		}
	}
	return s.f.Seek(offset, whence)
}

func (s *File) Flush() error {
	if s.w == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeFileOpen, "stream.flush", s.w.Flush())
}

func (s *File) Close() error {
	if err := s.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return apperrors.Wrap(apperrors.CodeFileOpen, "stream.close", s.f.Close())
}

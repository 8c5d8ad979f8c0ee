// Package source opens watch logs and decodes them into records.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// StdinName selects standard input as a FileSource path.
const StdinName = "-"

// Source yields the raw bytes of a watch log.
type Source interface {
	// Name identifies the source in messages and logs.
	Name() string
	// Open returns a reader over the whole input. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a file from disk, or stdin when the path is "-".
type FileSource struct {
	Path  string
	Stdin io.Reader // used for "-"; defaults to os.Stdin
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name implements Source.
func (f *FileSource) Name() string {
	if f.Path == StdinName {
		return "<stdin>"
	}
	return f.Path
}

// Open implements Source. A missing path or a directory is ErrNotFound.
func (f *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	if f.Path == StdinName {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.NopCloser(in), nil
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, f.Path)
	}

	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}

// ReaderSource wraps an already open stream.
type ReaderSource struct {
	name string
	r    io.Reader
}

// NewReaderSource returns a Source reading from r. name labels it.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

// Name implements Source.
func (s *ReaderSource) Name() string { return s.name }

// Open implements Source.
func (s *ReaderSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s.r == nil {
		return nil, fmt.Errorf("%w: %s has no reader", ErrNotFound, s.name)
	}
	if rc, ok := s.r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(s.r), nil
}

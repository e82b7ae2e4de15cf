package widget

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// File is a user-chosen document: a display name plus a way to read its bytes.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Selection is an ordered set of files. A nil or empty selection cannot be submitted.
type Selection []File

func (s Selection) Empty() bool {
	return len(s) == 0
}

func (s Selection) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name()
	}
	return names
}

// LocalFile is a file on disk, opened lazily at submission time.
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string {
	return filepath.Base(f.Path)
}

func (f LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// MemoryFile holds its payload in memory.
type MemoryFile struct {
	FileName string
	Data     []byte
}

func (f MemoryFile) Name() string {
	return f.FileName
}

func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// LocalFiles wraps paths as a Selection, preserving order.
func LocalFiles(paths ...string) Selection {
	if len(paths) == 0 {
		return nil
	}
	sel := make(Selection, len(paths))
	for i, p := range paths {
		sel[i] = LocalFile{Path: p}
	}
	return sel
}

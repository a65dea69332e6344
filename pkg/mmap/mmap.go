// Package mmap maps input files read-only so the CLI can scan rows without
// copying the file through a read buffer
package mmap

import (
	"bytes"
	"os"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// File is a read-only memory-mapped file
type File struct {
	file *os.File
	data []byte
}

// Open maps path into memory. An empty file is returned with no mapping
// since zero-length mappings are rejected by the kernel.
func Open(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file").
			WithDetail("path", path)
	}
	if !stat.Mode().IsRegular() {
		_ = f.Close()
		return nil, errors.Newf(errors.ErrorTypeFile, "%s is not a regular file", path)
	}

	m := &File{file: f}
	if stat.Size() == 0 {
		return m, nil
	}

	m.data, err = mapFile(f, int(stat.Size()))
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to mmap file").
			WithDetail("path", path)
	}
	return m, nil
}

// Bytes returns the mapped contents. The slice is invalid after Close and
// must not be modified.
func (m *File) Bytes() []byte { return m.data }

// Len returns the file size
func (m *File) Len() int { return len(m.data) }

// Reader returns a reader over the mapped contents
func (m *File) Reader() *bytes.Reader { return bytes.NewReader(m.data) }

// Close unmaps the file and closes it
func (m *File) Close() error {
	var err error
	if m.data != nil {
		err = unmap(m.data)
		m.data = nil
	}
	if m.file != nil {
		if closeErr := m.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.file = nil
	}
	return err
}

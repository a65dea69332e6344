package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

func TestOpenMapsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.txt")
	require.NoError(t, os.WriteFile(path, []byte("YQ==\nYWI=\n"), 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, "YQ==\nYWI=\n", string(m.Bytes()))

	got, err := io.ReadAll(m.Reader())
	require.NoError(t, err)
	assert.Equal(t, "YQ==\nYWI=\n", string(got))

	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
	assert.NoError(t, m.Close())
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, 0, m.Len())

	n, err := m.Reader().Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = Open(t.TempDir())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

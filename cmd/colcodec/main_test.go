package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colcodec/pkg/compression"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := logger.Get()
	t.Cleanup(func() { logger.Set(prev) })

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level=error"))
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEncodeCommand(t *testing.T) {
	in := writeInput(t, "rows.txt", "\na\nab\n")
	out, err := execute(t, "encode", in, "--backend=std")
	require.NoError(t, err)
	assert.Equal(t, "\nYQ==\nYWI=\n", out)
}

func TestDecodeCommandFailsOnInvalidRow(t *testing.T) {
	in := writeInput(t, "rows.txt", "YQ==\nnot-valid-base64\n")
	_, err := execute(t, "decode", in, "--block-rows=10")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncorrectData))
	assert.Contains(t, err.Error(), "Failed to base64Decode input 'not-valid-base64'")
	assert.Equal(t, exitInvalidRow, exitCode(err))
}

func TestTryDecodeCommandJSON(t *testing.T) {
	in := writeInput(t, "rows.txt", "YQ==\nnot-valid-base64\nYWI=\n")
	out, err := execute(t, "try-decode", in, "--output-format=json", "--workers=2", "--block-rows=1")
	require.NoError(t, err)
	assert.Equal(t, "\"a\"\n\"\"\n\"ab\"\n", out)
}

func TestDecodeBinaryAsJSONFails(t *testing.T) {
	in := writeInput(t, "rows.txt", "/v4=\n")
	_, err := execute(t, "decode", in, "--output-format=json")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, "rows.txt", strings.Repeat("hello world\n", 100))
	encoded := filepath.Join(dir, "encoded.txt.zst")
	decoded := filepath.Join(dir, "decoded.txt.gz")

	_, err := execute(t, "encode", in, "-o", encoded)
	require.NoError(t, err)
	_, err = execute(t, "decode", encoded, "-o", decoded, "--compression-level=9")
	require.NoError(t, err)

	f, err := os.Open(decoded)
	require.NoError(t, err)
	defer f.Close()
	r, err := compression.NewReader(f, compression.Gzip)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("hello world\n", 100), string(got))
}

func TestArrowRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, "rows.txt", "\na\nab\n")
	arrowPath := filepath.Join(dir, "encoded.arrow")

	_, err := execute(t, "encode", in, "-o", arrowPath, "--output-format=arrow")
	require.NoError(t, err)

	out, err := execute(t, "decode", arrowPath, "--input-format=arrow")
	require.NoError(t, err)
	assert.Equal(t, "\na\nab\n", out)
}

func TestStructuralErrors(t *testing.T) {
	in := writeInput(t, "rows.txt", "a\n")

	_, err := execute(t, "encode", in, "--backend=avx512")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = execute(t, "encode", in, "--output-format=xml")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = execute(t, "encode", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestListCommands(t *testing.T) {
	out, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, out, "std")
	assert.Contains(t, out, "wide")

	out, err = execute(t, "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "base64Encode(String) -> String")
	assert.Contains(t, out, "tryBase64Decode(String) -> String")

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "colcodec v"+version)
}

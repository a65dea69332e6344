package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colcodec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "auto", cfg.Codec.Backend)
	assert.Equal(t, 65536, cfg.Codec.BlockRows)
	assert.Equal(t, "lines", cfg.IO.InputFormat)
	assert.Positive(t, cfg.Codec.GetWorkers())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty backend", func(c *Config) { c.Codec.Backend = "" }},
		{"unknown backend", func(c *Config) { c.Codec.Backend = "avx512" }},
		{"zero block rows", func(c *Config) { c.Codec.BlockRows = 0 }},
		{"negative workers", func(c *Config) { c.Codec.Workers = -1 }},
		{"bad input format", func(c *Config) { c.IO.InputFormat = "csv" }},
		{"bad output format", func(c *Config) { c.IO.OutputFormat = "parquet" }},
		{"bad compression", func(c *Config) { c.IO.OutputCompression = "brotli" }},
		{"bad level", func(c *Config) { c.IO.CompressionLevel = 12 }},
		{"metrics without address", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Address = ""
		}},
		{"sampling rate", func(c *Config) { c.Tracing.SamplingRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), err)
		})
	}
}

func TestLoadSubstitutesEnv(t *testing.T) {
	t.Setenv("TEST_COLCODEC_BACKEND", "std")
	path := writeConfig(t, `
codec:
  backend: ${TEST_COLCODEC_BACKEND}
  block_rows: 1024
logging:
  level: debug
`)

	cfg := Default()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "std", cfg.Codec.Backend)
	assert.Equal(t, 1024, cfg.Codec.BlockRows)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "lines", cfg.IO.OutputFormat)
}

func TestLoadErrors(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Default())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	err = Load(writeConfig(t, "codec: [unclosed"), Default())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Codec.Backend = "wide"
	require.NoError(t, Save(path, cfg))

	loaded := Default()
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, "wide", loaded.Codec.Backend)
}

func TestResolvePrecedence(t *testing.T) {
	path := writeConfig(t, `
codec:
  backend: std
  block_rows: 10
  workers: 2
`)
	t.Setenv("COLCODEC_CODEC_BLOCK_ROWS", "20")
	t.Setenv("COLCODEC_CODEC_WORKERS", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	flags.String("backend", "", "")
	require.NoError(t, flags.Parse([]string{"--workers=4"}))

	cfg, err := Resolve(path, flags, map[string]string{
		"codec.workers": "workers",
		"codec.backend": "backend",
	})
	require.NoError(t, err)
	assert.Equal(t, "std", cfg.Codec.Backend) // file; flag not set
	assert.Equal(t, 20, cfg.Codec.BlockRows)  // env over file
	assert.Equal(t, 4, cfg.Codec.Workers)     // flag over env
}

func TestResolveValidates(t *testing.T) {
	t.Setenv("COLCODEC_IO_OUTPUT_FORMAT", "xml")
	_, err := Resolve("", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

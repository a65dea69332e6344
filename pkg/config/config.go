package config

import (
	"runtime"

	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/compression"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/logger"
	"github.com/ajitpratap0/colcodec/pkg/observability"
)

// Config is the complete colcodec configuration
type Config struct {
	// Codec settings control backend selection and block sizing
	Codec CodecConfig `yaml:"codec" mapstructure:"codec"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`

	// Metrics configures the Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Tracing configures OpenTelemetry
	Tracing observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`

	// IO holds CLI input and output defaults
	IO IOConfig `yaml:"io" mapstructure:"io"`
}

// CodecConfig contains backend and block settings
type CodecConfig struct {
	// Backend names a registered backend or "auto"
	Backend string `yaml:"backend" mapstructure:"backend"`
	// BlockRows is the number of rows per block read by the CLI
	BlockRows int `yaml:"block_rows" mapstructure:"block_rows"`
	// Workers is the number of blocks transformed concurrently
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// MetricsConfig contains Prometheus settings
type MetricsConfig struct {
	// Enabled serves /metrics while the CLI runs
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Address is the listen address of the metrics server
	Address string `yaml:"address" mapstructure:"address"`
	// Path is the HTTP path metrics are served on
	Path string `yaml:"path" mapstructure:"path"`
}

// IOConfig contains CLI format defaults
type IOConfig struct {
	// InputFormat is lines, arrow or json
	InputFormat string `yaml:"input_format" mapstructure:"input_format"`
	// OutputFormat is lines, arrow or json
	OutputFormat string `yaml:"output_format" mapstructure:"output_format"`
	// InputCompression is an algorithm name or "auto" to use the file extension
	InputCompression string `yaml:"input_compression" mapstructure:"input_compression"`
	// OutputCompression is an algorithm name or "auto" to use the file extension
	OutputCompression string `yaml:"output_compression" mapstructure:"output_compression"`
	// CompressionLevel is 1 (fastest) to 9 (best)
	CompressionLevel int `yaml:"compression_level" mapstructure:"compression_level"`
}

// Formats accepted for CLI input and output
var Formats = []string{"lines", "arrow", "json"}

// Default returns a configuration with production defaults
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Backend:   backend.AutoName,
			BlockRows: 65536,
			Workers:   runtime.NumCPU(),
		},
		Logging: logger.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
			Path:    "/metrics",
		},
		Tracing: observability.TracingConfig{
			Enabled:      false,
			ServiceName:  "colcodec",
			Exporter:     "stdout",
			SamplingRate: 1.0,
		},
		IO: IOConfig{
			InputFormat:       "lines",
			OutputFormat:      "lines",
			InputCompression:  "auto",
			OutputCompression: "auto",
			CompressionLevel:  int(compression.Default),
		},
	}
}

// Validate checks the configuration for correctness
func (c *Config) Validate() error {
	if c.Codec.Backend == "" {
		return errors.New(errors.ErrorTypeConfig, "codec.backend is required")
	}
	if c.Codec.Backend != backend.AutoName && !contains(backend.Names(), c.Codec.Backend) {
		return errors.Newf(errors.ErrorTypeConfig, "codec.backend %s is not registered", c.Codec.Backend).
			WithDetail("available", backend.Names())
	}
	if c.Codec.BlockRows <= 0 {
		return errors.New(errors.ErrorTypeConfig, "codec.block_rows must be positive")
	}
	if c.Codec.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "codec.workers cannot be negative")
	}
	if !contains(Formats, c.IO.InputFormat) {
		return errors.Newf(errors.ErrorTypeConfig, "io.input_format %s is not one of %v", c.IO.InputFormat, Formats)
	}
	if !contains(Formats, c.IO.OutputFormat) {
		return errors.Newf(errors.ErrorTypeConfig, "io.output_format %s is not one of %v", c.IO.OutputFormat, Formats)
	}
	for _, name := range []string{c.IO.InputCompression, c.IO.OutputCompression} {
		if name == "auto" {
			continue
		}
		if _, err := compression.ParseAlgorithm(name); err != nil {
			return err
		}
	}
	if c.IO.CompressionLevel < int(compression.Fastest) || c.IO.CompressionLevel > int(compression.Best) {
		return errors.Newf(errors.ErrorTypeConfig, "io.compression_level %d must be between 1 and 9", c.IO.CompressionLevel)
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics.address is required when metrics are enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1")
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (c *CodecConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

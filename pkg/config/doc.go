// Package config provides the configuration system for colcodec.
//
// Configuration is organized into sections:
//   - Codec: backend selection and block sizing
//   - Logging: zap logger settings
//   - Metrics: Prometheus endpoint
//   - Tracing: OpenTelemetry exporter
//   - IO: default formats and compression for the CLI
//
// Values are resolved in increasing precedence: built-in defaults, a YAML
// file (with ${VAR} environment substitution), COLCODEC_* environment
// variables, then command-line flags bound through viper.
//
// Example usage:
//
//	cfg := config.Default()
//	if err := config.Load("colcodec.yaml", cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Environment overrides use the section and key joined by an underscore:
//
//	COLCODEC_CODEC_BACKEND=std
//	COLCODEC_CODEC_WORKERS=8
//	COLCODEC_LOGGING_LEVEL=debug
package config

package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colcodec/internal/pipeline"
	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/compression"
	"github.com/ajitpratap0/colcodec/pkg/config"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/functions"
	"github.com/ajitpratap0/colcodec/pkg/logger"
	"github.com/ajitpratap0/colcodec/pkg/mmap"
	"github.com/ajitpratap0/colcodec/pkg/observability"
)

func newTransformCommand(mode codec.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   mode.String() + " [input]",
		Short: "Apply " + mode.FunctionName() + " to every input row",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			output, _ := cmd.Flags().GetString("output")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runTransform(cmd.Context(), cfg, mode, input, output, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "-", "Output file, - for stdout")
	f.Int("block-rows", 65536, "Rows per block")
	f.Int("workers", 0, "Blocks transformed concurrently (0 = number of CPUs)")
	f.String("input-format", "lines", "Input format (lines, json, arrow)")
	f.String("output-format", "lines", "Output format (lines, json, arrow)")
	f.String("input-compression", "auto", "Input compression (auto, none, gzip, zstd, lz4, snappy, s2)")
	f.String("output-compression", "auto", "Output compression (auto, none, gzip, zstd, lz4, snappy, s2)")
	f.Int("compression-level", int(compression.Default), "Output compression level (1-9)")
	return cmd
}

func runTransform(ctx context.Context, cfg *config.Config, mode codec.Mode, input, output string, stdout io.Writer) error {
	log := logger.With(zap.String("command", mode.String()))

	shutdownTracing, err := observability.InitTracing(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	if cfg.Metrics.Enabled {
		stopMetrics := serveMetrics(cfg.Metrics, log)
		defer stopMetrics()
	}

	be, err := backend.Lookup(cfg.Codec.Backend)
	if err != nil {
		return err
	}
	registry, err := functions.NewBase64Registry(be)
	if err != nil {
		return err
	}
	fn, err := registry.Get(mode.FunctionName())
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(input, cfg.IO.InputCompression)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(output, cfg.IO.OutputCompression, compression.Level(cfg.IO.CompressionLevel), stdout)
	if err != nil {
		return err
	}

	src, err := pipeline.NewSource(cfg.IO.InputFormat, in, cfg.Codec.BlockRows)
	if err != nil {
		closeOut()
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	sink, err := pipeline.NewSink(cfg.IO.OutputFormat, out, mode.Decodes())
	if err != nil {
		closeOut()
		return err
	}

	log.Info("transforming",
		zap.String("function", fn.Name()),
		zap.String("backend", be.Name()),
		zap.String("input", input),
		zap.String("output", output))

	p := pipeline.New(src, sink, fn, &pipeline.Config{Workers: cfg.Codec.GetWorkers()}, log)
	_, runErr := p.Run(ctx)
	if err := closeOut(); runErr == nil {
		runErr = err
	}
	return runErr
}

// openInput maps path, or uses stdin for "-", and wraps it in a decompressor
func openInput(path, alg string) (io.Reader, func(), error) {
	var (
		raw     io.Reader = os.Stdin
		closeFn           = func() {}
	)
	if path != "-" {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, nil, err
		}
		raw = m.Reader()
		closeFn = func() { _ = m.Close() }
	}

	algorithm, err := resolveAlgorithm(alg, path)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	r, err := compression.NewReader(raw, algorithm)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return r, func() {
		r.Close()
		closeFn()
	}, nil
}

// openOutput creates path, or uses stdout for "-", behind a compressor. The
// returned close func flushes the compressor and then closes the file.
func openOutput(path, alg string, level compression.Level, stdout io.Writer) (io.Writer, func() error, error) {
	var (
		raw     = stdout
		closeFn = func() error { return nil }
	)
	if path != "-" {
		f, err := os.Create(path) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").
				WithDetail("path", path)
		}
		raw = f
		closeFn = f.Close
	}

	algorithm, err := resolveAlgorithm(alg, path)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	w, err := compression.NewWriter(raw, algorithm, level)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	done := false
	return w, func() error {
		if done {
			return nil
		}
		done = true
		werr := w.Close()
		ferr := closeFn()
		if werr != nil {
			return errors.Wrap(werr, errors.ErrorTypeFile, "failed to flush compressed output")
		}
		if ferr != nil {
			return errors.Wrap(ferr, errors.ErrorTypeFile, "failed to close output")
		}
		return nil
	}, nil
}

func resolveAlgorithm(name, path string) (compression.Algorithm, error) {
	if name == "auto" {
		if path == "-" {
			return compression.None, nil
		}
		return compression.FromPath(path), nil
	}
	return compression.ParseAlgorithm(name)
}

// serveMetrics starts the Prometheus endpoint and returns its stop func
func serveMetrics(cfg config.MetricsConfig, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", zap.String("address", cfg.Address), zap.String("path", cfg.Path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("metrics server shutdown", zap.Error(err))
		}
	}
}

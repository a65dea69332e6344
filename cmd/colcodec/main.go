// Command colcodec applies base64Encode, base64Decode or tryBase64Decode to
// rows read from a file or stdin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/config"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/functions"
	"github.com/ajitpratap0/colcodec/pkg/logger"
)

var version = "0.1.0"

// exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitInvalidRow = 3
)

// flagBindings maps configuration keys to command-line flag names
var flagBindings = map[string]string{
	"codec.backend":         "backend",
	"codec.block_rows":      "block-rows",
	"codec.workers":         "workers",
	"logging.level":         "log-level",
	"metrics.enabled":       "metrics",
	"metrics.address":       "metrics-addr",
	"tracing.enabled":       "trace",
	"io.input_format":       "input-format",
	"io.output_format":      "output-format",
	"io.input_compression":  "input-compression",
	"io.output_compression": "output-compression",
	"io.compression_level":  "compression-level",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.IsType(err, errors.ErrorTypeIncorrectData):
		return exitInvalidRow
	case errors.IsType(err, errors.ErrorTypeConfig), errors.IsStructural(err):
		return exitUsage
	default:
		return exitFailure
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "colcodec",
		Short: "Batch base64 codec over columns of byte strings",
		Long: `colcodec reads rows, groups them into blocks and converts every block with
one of the column functions base64Encode, base64Decode or tryBase64Decode.

Input rows are newline-delimited text, JSON strings or an Arrow IPC stream,
optionally compressed. Strict decoding stops at the first block holding an
invalid row; try-decode replaces invalid rows with empty strings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML configuration file")
	pf.String("backend", backend.AutoName, "Codec backend (auto, "+joinNames(backend.Names())+")")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("metrics", false, "Serve Prometheus metrics while running")
	pf.String("metrics-addr", ":9090", "Metrics listen address")
	pf.Bool("trace", false, "Export OpenTelemetry spans to stderr")

	for _, mode := range codec.Modes {
		root.AddCommand(newTransformCommand(mode))
	}
	root.AddCommand(newBackendsCommand())
	root.AddCommand(newFunctionsCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "colcodec v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	return root
}

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List codec backends",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			detected := backend.Detect()
			caps := backend.Capabilities()
			fmt.Fprintf(out, "CPU: avx2=%t asimd=%t\n", caps.AVX2, caps.ASIMD)
			for _, name := range backend.Names() {
				marker := " "
				if name == detected {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
		},
	}
}

func newFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List column functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := functions.NewBase64Registry(backend.NewStd())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range registry.List() {
				fn, err := registry.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s(String) -> String  arity=%d short_circuit=%t\n",
					name, fn.NumberOfArguments(), fn.IsSuitableForShortCircuit())
			}
			return nil
		},
	}
}

// loadConfig resolves configuration for cmd and initializes logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path, cmd.Flags(), flagBindings)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("backend", cfg.Codec.Backend),
		zap.Int("block_rows", cfg.Codec.BlockRows),
		zap.Int("workers", cfg.Codec.GetWorkers()))
	return cfg, nil
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

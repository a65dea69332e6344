// Package functions exposes the codec modes as named column functions:
// base64Encode, base64Decode and tryBase64Decode.
//
// Each function takes exactly one String argument and returns a String
// column. Argument count, argument type and runtime column representation are
// checked before any row is processed. Constant arguments are folded: the
// single stored value is transformed once and the result is returned as a
// constant of the same length.
package functions

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/logger"
	"github.com/ajitpratap0/colcodec/pkg/metrics"
	"github.com/ajitpratap0/colcodec/pkg/observability"
)

// Function is a named column function
type Function interface {
	// Name is the lookup name
	Name() string
	// NumberOfArguments is the exact arity
	NumberOfArguments() int
	// IsSuitableForShortCircuit reports whether the function may be skipped
	// for rows a short-circuiting caller never needs
	IsSuitableForShortCircuit() bool
	// UseDefaultImplementationForConstants reports whether constant
	// arguments are folded by executing on their single value
	UseDefaultImplementationForConstants() bool
	// ReturnType validates argument types and returns the result type
	ReturnType(args []columnar.ColumnType) (columnar.ColumnType, error)
	// Execute applies the function to rows rows of args
	Execute(ctx context.Context, args []columnar.Column, rows int) (columnar.Column, error)
}

// Base64Function binds one codec mode to a backend
type Base64Function struct {
	mode      codec.Mode
	backend   backend.Backend
	collector *metrics.Collector
}

var _ Function = (*Base64Function)(nil)

// NewBase64Function creates the function for mode using be
func NewBase64Function(mode codec.Mode, be backend.Backend) *Base64Function {
	return &Base64Function{
		mode:      mode,
		backend:   be,
		collector: metrics.NewCollector(mode.FunctionName()),
	}
}

func (f *Base64Function) Name() string                               { return f.mode.FunctionName() }
func (f *Base64Function) Mode() codec.Mode                           { return f.mode }
func (f *Base64Function) Backend() backend.Backend                   { return f.backend }
func (f *Base64Function) NumberOfArguments() int                     { return 1 }
func (f *Base64Function) IsSuitableForShortCircuit() bool            { return true }
func (f *Base64Function) UseDefaultImplementationForConstants() bool { return true }

// ReturnType requires a single String argument
func (f *Base64Function) ReturnType(args []columnar.ColumnType) (columnar.ColumnType, error) {
	if len(args) != f.NumberOfArguments() {
		return 0, errors.Newf(errors.ErrorTypeBadArguments,
			"Wrong number of arguments for function %s: 1 expected.", f.Name()).
			WithDetail("got", len(args))
	}
	if !args[0].IsString() {
		return 0, errors.Newf(errors.ErrorTypeIllegalTypeOfArgument,
			"Illegal type %s of 1st argument of function %s. Must be String.", args[0], f.Name())
	}
	return columnar.ColumnTypeString, nil
}

// Execute validates args and transforms the argument column
func (f *Base64Function) Execute(ctx context.Context, args []columnar.Column, rows int) (columnar.Column, error) {
	types := make([]columnar.ColumnType, len(args))
	for i, a := range args {
		if a == nil {
			return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
				"missing column for argument %d of function %s", i+1, f.Name())
		}
		types[i] = a.Type()
	}
	if _, err := f.ReturnType(types); err != nil {
		return nil, err
	}

	arg := args[0]
	if c, ok := arg.(*columnar.ConstColumn); ok && f.UseDefaultImplementationForConstants() {
		if c.Len() != rows {
			return nil, f.rowCountMismatch(c, rows)
		}
		inner, ok := c.Data().(*columnar.StringBlock)
		if !ok {
			return nil, f.illegalColumn(c)
		}
		out, err := f.executeBlock(ctx, inner)
		if err != nil {
			return nil, err
		}
		folded, err := columnar.NewConstColumn(out, rows)
		if err != nil {
			return nil, err
		}
		return folded, nil
	}

	block, ok := arg.(*columnar.StringBlock)
	if !ok {
		return nil, f.illegalColumn(arg)
	}
	if block.Len() != rows {
		return nil, f.rowCountMismatch(block, rows)
	}
	out, err := f.executeBlock(ctx, block)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteBlock transforms a String block directly, skipping argument checks
func (f *Base64Function) ExecuteBlock(ctx context.Context, block *columnar.StringBlock) (*columnar.StringBlock, error) {
	if block == nil {
		return nil, f.illegalColumn(nil)
	}
	return f.executeBlock(ctx, block)
}

func (f *Base64Function) executeBlock(ctx context.Context, block *columnar.StringBlock) (*columnar.StringBlock, error) {
	ctx = logger.WithFunction(ctx, f.Name())
	ctx, span := observability.StartBlockSpan(ctx, f.Name(), block.Len())
	timer := metrics.NewTimer()

	out, stats, err := codec.TransformWithStats(block, f.mode, f.backend)

	elapsed := timer.Stop()
	f.collector.RecordBlock(metrics.Block{
		Rows:          stats.Rows,
		InvalidRows:   stats.InvalidRows,
		InputBytes:    stats.InputBytes,
		OutputBytes:   stats.OutputBytes,
		ReservedBytes: stats.ReservedBytes,
		Duration:      elapsed,
		Failed:        err != nil,
	})
	span.SetAttributes(
		attribute.String("colcodec.backend", f.backend.Name()),
		attribute.Int("colcodec.invalid_rows", stats.InvalidRows),
		attribute.Int("colcodec.output_bytes", stats.OutputBytes),
	)
	span.End(err)

	log := logger.WithContext(ctx)
	if err != nil {
		log.Debug("block transform failed", zap.Error(err), zap.Int("rows", stats.Rows))
		return nil, err
	}
	if stats.InvalidRows > 0 {
		log.Warn("invalid rows replaced with empty strings",
			zap.Int("invalid_rows", stats.InvalidRows),
			zap.Int("rows", stats.Rows))
	}
	log.Debug("block transformed",
		zap.Int("rows", stats.Rows),
		zap.Int("input_bytes", stats.InputBytes),
		zap.Int("output_bytes", stats.OutputBytes),
		zap.Duration("elapsed", elapsed))
	return out, nil
}

func (f *Base64Function) illegalColumn(c columnar.Column) error {
	name := "NULL"
	if c != nil {
		name = c.Name()
	}
	return errors.Newf(errors.ErrorTypeIllegalColumn,
		"Illegal column %s of first argument of function %s, must be of type String", name, f.Name())
}

func (f *Base64Function) rowCountMismatch(c columnar.Column, rows int) error {
	return errors.Newf(errors.ErrorTypeIllegalColumn,
		"Illegal column %s of first argument of function %s: has %d rows, %d expected",
		c.Name(), f.Name(), c.Len(), rows)
}

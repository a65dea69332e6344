// Package pipeline drives a column function over a stream of String blocks.
//
// A Pipeline reads blocks from a Source, applies one function to each block
// and writes the results to a Sink in input order:
//
//	src := pipeline.NewLinesSource(os.Stdin, 65536)
//	sink := pipeline.NewLinesSink(os.Stdout)
//	p := pipeline.New(src, sink, fn, &pipeline.Config{Workers: 4}, logger)
//	stats, err := p.Run(ctx)
//
// Each block is transformed by a single goroutine. With more than one worker,
// up to Workers consecutive blocks are transformed concurrently and written
// once all of them finish. The first failing block stops the run; blocks
// after it are never written. Cancellation is observed between rounds, never
// inside a block.
package pipeline

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/functions"
	"github.com/ajitpratap0/colcodec/pkg/logger"
)

// Config contains pipeline configuration parameters
type Config struct {
	Workers int // blocks transformed concurrently
}

// DefaultConfig processes one block at a time
func DefaultConfig() *Config {
	return &Config{Workers: 1}
}

// Stats summarizes a run
type Stats struct {
	Blocks      int
	Rows        int
	InputBytes  int // data bytes read, sentinels included
	OutputBytes int // data bytes written, sentinels included
	Duration    time.Duration
}

// Pipeline applies a function to every block of a source
type Pipeline struct {
	source  Source
	sink    Sink
	fn      functions.Function
	workers int
	logger  *zap.Logger
}

// New creates a pipeline. A nil config uses DefaultConfig and a nil logger
// uses the global logger.
func New(source Source, sink Sink, fn functions.Function, config *Config, log *zap.Logger) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Get()
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		source:  source,
		sink:    sink,
		fn:      fn,
		workers: workers,
		logger:  log.With(zap.String("function", fn.Name())),
	}
}

// Run processes the source until io.EOF, an error, or cancellation. The sink
// is closed on success and on failure.
func (p *Pipeline) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	p.logger.Info("starting pipeline", zap.Int("workers", p.workers))

	defer func() {
		if cerr := p.sink.Close(); err == nil && cerr != nil {
			err = cerr
		}
		stats.Duration = time.Since(start)
		if err != nil {
			p.logger.Error("pipeline failed", zap.Error(err), zap.Int("blocks", stats.Blocks))
			return
		}
		p.logger.Info("pipeline completed",
			zap.Int("blocks", stats.Blocks),
			zap.Int("rows", stats.Rows),
			zap.Int("input_bytes", stats.InputBytes),
			zap.Int("output_bytes", stats.OutputBytes),
			zap.Duration("duration", stats.Duration))
	}()

	round := make([]*columnar.StringBlock, 0, p.workers)
	results := make([]*columnar.StringBlock, p.workers)
	for {
		if err := ctx.Err(); err != nil {
			return stats, errors.Wrap(err, errors.ErrorTypeInternal, "pipeline cancelled")
		}

		round = round[:0]
		eof := false
		for len(round) < p.workers {
			block, err := p.source.Next()
			if err == io.EOF {
				eof = true
				break
			}
			if err != nil {
				return stats, err
			}
			round = append(round, block)
		}

		if err := p.transformRound(ctx, stats.Blocks, round, results); err != nil {
			return stats, err
		}

		for i, in := range round {
			out := results[i]
			if err := p.sink.Write(out); err != nil {
				return stats, err
			}
			stats.Blocks++
			stats.Rows += in.Len()
			stats.InputBytes += in.DataLen()
			stats.OutputBytes += out.DataLen()
			results[i] = nil
		}

		if eof {
			return stats, nil
		}
	}
}

// transformRound transforms blocks concurrently into results[:len(blocks)].
// first is the sequence number of blocks[0].
func (p *Pipeline) transformRound(ctx context.Context, first int, blocks, results []*columnar.StringBlock) error {
	if len(blocks) == 1 {
		out, err := p.transform(ctx, first, blocks[0])
		results[0] = out
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, block := range blocks {
		g.Go(func() error {
			out, err := p.transform(gctx, first+i, block)
			results[i] = out
			return err
		})
	}
	return g.Wait()
}

func (p *Pipeline) transform(ctx context.Context, seq int, block *columnar.StringBlock) (*columnar.StringBlock, error) {
	ctx = logger.WithBlockID(ctx, seq)
	col, err := p.fn.Execute(ctx, []columnar.Column{block}, block.Len())
	if err != nil {
		var cerr *errors.Error
		if errors.As(err, &cerr) {
			cerr.WithDetail("block", seq)
		}
		return nil, err
	}
	out, ok := col.(*columnar.StringBlock)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"function %s returned %s for block %d, expected String", p.fn.Name(), col.Name(), seq)
	}
	return out, nil
}

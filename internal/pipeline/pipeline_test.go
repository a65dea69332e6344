package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colcodec/pkg/codec"
	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	"github.com/ajitpratap0/colcodec/pkg/functions"
	"github.com/ajitpratap0/colcodec/pkg/testutil"
)

// sliceSource replays fixed blocks
type sliceSource struct {
	blocks []*columnar.StringBlock
	err    error
}

func (s *sliceSource) Next() (*columnar.StringBlock, error) {
	if len(s.blocks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	b := s.blocks[0]
	s.blocks = s.blocks[1:]
	return b, nil
}

// collectSink keeps written blocks
type collectSink struct {
	blocks []*columnar.StringBlock
	closed bool
}

func (s *collectSink) Write(b *columnar.StringBlock) error {
	s.blocks = append(s.blocks, b)
	return nil
}

func (s *collectSink) Close() error {
	s.closed = true
	return nil
}

func (s *collectSink) rows() []string {
	var out []string
	for _, b := range s.blocks {
		out = append(out, b.Strings()...)
	}
	return out
}

func newFunction(mode codec.Mode) functions.Function {
	return functions.NewBase64Function(mode, backend.NewStd())
}

func TestPipelineEncodeLines(t *testing.T) {
	log := testutil.UseTestLogger(t)

	var out bytes.Buffer
	src := NewLinesSource(strings.NewReader("\na\nab\nabc\r\n"), 2)
	p := New(src, NewLinesSink(&out), newFunction(codec.Encode), nil, log)

	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "\nYQ==\nYWI=\nYWJj\n", out.String())
	assert.Equal(t, 2, stats.Blocks)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 6+4, stats.InputBytes)
	assert.Equal(t, 1+5+5+5, stats.OutputBytes)
}

func TestPipelineKeepsOrderAcrossWorkers(t *testing.T) {
	log := testutil.UseTestLogger(t)

	var blocks []*columnar.StringBlock
	var want []string
	for i := 0; i < 37; i++ {
		rows := []string{strings.Repeat("x", i), strings.Repeat("yz", i%5)}
		blocks = append(blocks, columnar.FromStrings(rows))
		want = append(want, rows...)
	}

	encoded := &collectSink{}
	p := New(&sliceSource{blocks: blocks}, encoded, newFunction(codec.Encode), &Config{Workers: 8}, log)
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, encoded.blocks, 37)

	decoded := &collectSink{}
	p = New(&sliceSource{blocks: encoded.blocks}, decoded, newFunction(codec.Decode), &Config{Workers: 3}, log)
	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, decoded.rows())
	assert.Equal(t, 74, stats.Rows)
	assert.True(t, decoded.closed)
}

func TestPipelineStrictDecodeFailsWholeBlock(t *testing.T) {
	log := testutil.UseTestLogger(t)

	blocks := []*columnar.StringBlock{
		columnar.FromStrings([]string{"YQ=="}),
		columnar.FromStrings([]string{"YWI=", "not-valid-base64"}),
		columnar.FromStrings([]string{"YWJj"}),
	}
	sink := &collectSink{}
	p := New(&sliceSource{blocks: blocks}, sink, newFunction(codec.Decode), nil, log)

	stats, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncorrectData))
	assert.Equal(t, 1, stats.Blocks)
	assert.Equal(t, []string{"a"}, sink.rows())
	assert.True(t, sink.closed)

	var cerr *errors.Error
	require.True(t, errors.As(err, &cerr))
	block, ok := cerr.Detail("block")
	require.True(t, ok)
	assert.Equal(t, 1, block)
}

func TestPipelineTryDecodeNeverFails(t *testing.T) {
	log := testutil.UseTestLogger(t)

	var out bytes.Buffer
	src := NewLinesSource(strings.NewReader("YQ==\nnot-valid-base64\n\nYWI=\n"), 100)
	p := New(src, NewJSONSink(&out), newFunction(codec.TryDecode), &Config{Workers: 2}, log)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "\"a\"\n\"\"\n\"\"\n\"ab\"\n", out.String())
}

func TestPipelineSourceError(t *testing.T) {
	log := testutil.UseTestLogger(t)

	src := &sliceSource{err: errors.New(errors.ErrorTypeFile, "disk gone")}
	sink := &collectSink{}
	_, err := New(src, sink, newFunction(codec.Encode), nil, log).Run(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
	assert.True(t, sink.closed)
}

func TestPipelineCancelled(t *testing.T) {
	log := testutil.UseTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceSource{blocks: []*columnar.StringBlock{columnar.FromStrings([]string{"a"})}}
	sink := &collectSink{}
	_, err := New(src, sink, newFunction(codec.Encode), nil, log).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, sink.blocks)
}

func TestPipelineEmptySource(t *testing.T) {
	log := testutil.UseTestLogger(t)

	sink := &collectSink{}
	stats, err := New(&sliceSource{}, sink, newFunction(codec.Encode), nil, log).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Blocks)
	assert.Empty(t, sink.blocks)
}

package pipeline

import (
	"bufio"
	"bytes"
	"io"

	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/columnar/arrowconv"
	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// maxLineSize bounds a single input line
const maxLineSize = 64 << 20

// Source produces String blocks in input order. Next returns io.EOF after
// the last block.
type Source interface {
	Next() (*columnar.StringBlock, error)
}

// LinesSource reads one row per newline-terminated line
type LinesSource struct {
	scanner   *bufio.Scanner
	blockRows int
}

// NewLinesSource splits r into blocks of up to blockRows lines. The line
// terminator, and a carriage return before it, is not part of the row.
func NewLinesSource(r io.Reader, blockRows int) *LinesSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &LinesSource{scanner: scanner, blockRows: blockRows}
}

func (s *LinesSource) Next() (*columnar.StringBlock, error) {
	b := columnar.NewStringBlockBuilder(s.blockRows, 0)
	for b.Len() < s.blockRows && s.scanner.Scan() {
		b.Append(bytes.TrimSuffix(s.scanner.Bytes(), []byte{'\r'}))
	}
	if err := s.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read lines")
	}
	if b.Len() == 0 {
		return nil, io.EOF
	}
	return b.Finish(), nil
}

// JSONSource reads a stream of JSON string values, one row each
type JSONSource struct {
	dec       *json.Decoder
	blockRows int
	row       int
}

// NewJSONSource splits a sequence of JSON strings from r into blocks of up
// to blockRows rows
func NewJSONSource(r io.Reader, blockRows int) *JSONSource {
	return &JSONSource{dec: json.NewDecoder(r), blockRows: blockRows}
}

func (s *JSONSource) Next() (*columnar.StringBlock, error) {
	b := columnar.NewStringBlockBuilder(s.blockRows, 0)
	for b.Len() < s.blockRows {
		var v string
		err := s.dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to decode JSON row").
				WithDetail("row", s.row)
		}
		b.AppendString(v)
		s.row++
	}
	if b.Len() == 0 {
		return nil, io.EOF
	}
	return b.Finish(), nil
}

// ArrowSource yields one block per record batch of an Arrow IPC stream
type ArrowSource struct {
	reader *arrowconv.Reader
}

// NewArrowSource opens an Arrow IPC stream on r
func NewArrowSource(r io.Reader) (*ArrowSource, error) {
	reader, err := arrowconv.NewReader(r, nil)
	if err != nil {
		return nil, err
	}
	return &ArrowSource{reader: reader}, nil
}

func (s *ArrowSource) Next() (*columnar.StringBlock, error) {
	return s.reader.Next()
}

// Close releases the underlying IPC reader
func (s *ArrowSource) Close() error {
	s.reader.Release()
	return nil
}

// NewSource opens a source for format, one of lines, json or arrow
func NewSource(format string, r io.Reader, blockRows int) (Source, error) {
	if blockRows <= 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "block rows must be positive")
	}
	switch format {
	case "lines":
		return NewLinesSource(r, blockRows), nil
	case "json":
		return NewJSONSource(r, blockRows), nil
	case "arrow":
		return NewArrowSource(r)
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported input format: %s", format)
	}
}

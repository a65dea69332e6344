package pipeline

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/columnar/arrowconv"
	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// Sink consumes String blocks in order
type Sink interface {
	Write(block *columnar.StringBlock) error
	// Close flushes buffered output. It does not close the underlying writer.
	Close() error
}

// LinesSink writes each row followed by a newline. Rows that themselves
// contain newlines cannot be told apart on reading; use arrow output for
// decoded binary data.
type LinesSink struct {
	w *bufio.Writer
}

// NewLinesSink writes rows to w
func NewLinesSink(w io.Writer) *LinesSink {
	return &LinesSink{w: bufio.NewWriterSize(w, 64<<10)}
}

func (s *LinesSink) Write(block *columnar.StringBlock) error {
	for i := 0; i < block.Len(); i++ {
		s.w.Write(block.Row(i)) //nolint:errcheck // bufio keeps the first error for Flush
		s.w.WriteByte('\n')     //nolint:errcheck
	}
	return nil
}

func (s *LinesSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush output")
	}
	return nil
}

// JSONSink writes each row as a JSON string on its own line. JSON strings
// cannot carry arbitrary bytes, so a row that is not valid UTF-8 is a File
// error rather than being written with replacement characters.
type JSONSink struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONSink writes rows to w
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriterSize(w, 64<<10)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONSink{w: bw, enc: enc}
}

func (s *JSONSink) Write(block *columnar.StringBlock) error {
	for i := 0; i < block.Len(); i++ {
		if !utf8.Valid(block.Row(i)) {
			return errors.Newf(errors.ErrorTypeFile,
				"row %d is not valid UTF-8 and cannot be written as JSON; use arrow output", i).
				WithDetail("row", i)
		}
		if err := s.enc.Encode(block.RowString(i)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to encode JSON row")
		}
	}
	return nil
}

func (s *JSONSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush output")
	}
	return nil
}

// ArrowSink writes one record batch per block
type ArrowSink struct {
	w *arrowconv.Writer
}

// NewArrowSink starts an Arrow IPC stream on w. Decoded output is written as
// Binary since it need not be valid UTF-8; encoded output is String.
func NewArrowSink(w io.Writer, binary bool) *ArrowSink {
	var dtype arrow.DataType = arrow.BinaryTypes.String
	if binary {
		dtype = arrow.BinaryTypes.Binary
	}
	return &ArrowSink{w: arrowconv.NewWriter(w, dtype, nil)}
}

func (s *ArrowSink) Write(block *columnar.StringBlock) error { return s.w.Write(block) }
func (s *ArrowSink) Close() error                            { return s.w.Close() }

// NewSink opens a sink for format, one of lines, json or arrow
func NewSink(format string, w io.Writer, binary bool) (Sink, error) {
	switch format {
	case "lines":
		return NewLinesSink(w), nil
	case "json":
		return NewJSONSink(w), nil
	case "arrow":
		return NewArrowSink(w, binary), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported output format: %s", format)
	}
}

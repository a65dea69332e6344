package arrowconv

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// Writer writes blocks as record batches of one column to an Arrow IPC
// stream
type Writer struct {
	w      *ipc.Writer
	schema *arrow.Schema
	dtype  arrow.DataType
	mem    memory.Allocator
	rows   int64
}

// NewWriter starts an IPC stream on w whose single column has type dtype
func NewWriter(w io.Writer, dtype arrow.DataType, mem memory.Allocator) *Writer {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := arrow.NewSchema([]arrow.Field{{Name: FieldName, Type: dtype}}, nil)
	return &Writer{
		w:      ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem)),
		schema: schema,
		dtype:  dtype,
		mem:    mem,
	}
}

// Write appends block as one record batch
func (w *Writer) Write(block *columnar.StringBlock) error {
	arr, err := ToArrow(block, w.mem, w.dtype)
	if err != nil {
		return err
	}
	defer arr.Release()

	rec := array.NewRecord(w.schema, []arrow.Array{arr}, int64(arr.Len()))
	defer rec.Release()

	if err := w.w.Write(rec); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch")
	}
	w.rows += rec.NumRows()
	return nil
}

// Rows returns the number of rows written so far
func (w *Writer) Rows() int64 { return w.rows }

// Close writes the end-of-stream marker. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if err := w.w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow stream")
	}
	return nil
}

// Reader reads the first column of each record batch of an Arrow IPC stream
// as a block
type Reader struct {
	r *ipc.Reader
}

// NewReader opens an IPC stream. The first field must be a string or binary
// type.
func NewReader(r io.Reader, mem memory.Allocator) (*Reader, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open Arrow stream")
	}
	if rdr.Schema().NumFields() == 0 {
		rdr.Release()
		return nil, errors.New(errors.ErrorTypeIllegalColumn, "Arrow stream has no columns")
	}
	return &Reader{r: rdr}, nil
}

// Next returns the next record batch as a block, or io.EOF after the last
func (r *Reader) Next() (*columnar.StringBlock, error) {
	if !r.r.Next() {
		if err := r.r.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read record batch")
		}
		return nil, io.EOF
	}
	return FromArrow(r.r.Record().Column(0))
}

// Release frees the reader's resources
func (r *Reader) Release() { r.r.Release() }

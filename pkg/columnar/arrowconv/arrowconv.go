// Package arrowconv converts String blocks to and from Apache Arrow arrays
// and reads and writes them as single-column Arrow IPC streams.
//
// Arrow String and Binary arrays share the same offsets-plus-data layout as a
// StringBlock, minus the per-row sentinel, so conversion is one copy per row.
// Null values have no representation in a StringBlock and are rejected.
package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	stringpool "github.com/ajitpratap0/colcodec/pkg/strings"
)

// FieldName is the column name used in written record batches
const FieldName = "value"

// ToArrow copies block into a new Arrow array of type dtype, which must be
// arrow.BinaryTypes.String or arrow.BinaryTypes.Binary. The caller owns the
// returned array and must Release it.
func ToArrow(block *columnar.StringBlock, mem memory.Allocator, dtype arrow.DataType) (arrow.Array, error) {
	switch dtype.ID() {
	case arrow.STRING:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.Reserve(block.Len())
		b.ReserveData(block.TotalLogicalLen())
		for i := 0; i < block.Len(); i++ {
			b.Append(stringpool.BytesToString(block.Row(i)))
		}
		return b.NewArray(), nil
	case arrow.BINARY:
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		b.Reserve(block.Len())
		b.ReserveData(block.TotalLogicalLen())
		for i := 0; i < block.Len(); i++ {
			b.Append(block.Row(i))
		}
		return b.NewArray(), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
			"cannot convert String block to Arrow type %s", dtype)
	}
}

// byteValues is the view FromArrow reads rows through
type byteValues interface {
	Len() int
	NullN() int
	RowBytes(i int) []byte
}

type stringValues struct{ arr *array.String }

func (s stringValues) Len() int   { return s.arr.Len() }
func (s stringValues) NullN() int { return s.arr.NullN() }
func (s stringValues) RowBytes(i int) []byte {
	return stringpool.StringToBytes(s.arr.Value(i))
}

type largeStringValues struct{ arr *array.LargeString }

func (s largeStringValues) Len() int   { return s.arr.Len() }
func (s largeStringValues) NullN() int { return s.arr.NullN() }
func (s largeStringValues) RowBytes(i int) []byte {
	return stringpool.StringToBytes(s.arr.Value(i))
}

type binaryValues struct{ arr *array.Binary }

func (b binaryValues) Len() int              { return b.arr.Len() }
func (b binaryValues) NullN() int            { return b.arr.NullN() }
func (b binaryValues) RowBytes(i int) []byte { return b.arr.Value(i) }

type largeBinaryValues struct{ arr *array.LargeBinary }

func (b largeBinaryValues) Len() int              { return b.arr.Len() }
func (b largeBinaryValues) NullN() int            { return b.arr.NullN() }
func (b largeBinaryValues) RowBytes(i int) []byte { return b.arr.Value(i) }

// FromArrow copies a String, LargeString, Binary or LargeBinary array into a
// new block. Any other array type, or an array holding nulls, is an
// IllegalColumn error.
func FromArrow(arr arrow.Array) (*columnar.StringBlock, error) {
	var values byteValues
	switch a := arr.(type) {
	case *array.String:
		values = stringValues{arr: a}
	case *array.LargeString:
		values = largeStringValues{arr: a}
	case *array.Binary:
		values = binaryValues{arr: a}
	case *array.LargeBinary:
		values = largeBinaryValues{arr: a}
	default:
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
			"Illegal column %s, must be of type String", arr.DataType())
	}

	if n := values.NullN(); n > 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalColumn,
			"column of type %s holds %d nulls", arr.DataType(), n)
	}

	rows := values.Len()
	total := rows
	for i := 0; i < rows; i++ {
		total += len(values.RowBytes(i))
	}
	b := columnar.NewStringBlockBuilder(rows, total)
	for i := 0; i < rows; i++ {
		b.Append(values.RowBytes(i))
	}
	return b.Finish(), nil
}

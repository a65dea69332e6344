package columnar

import (
	"github.com/ajitpratap0/colcodec/pkg/errors"
	stringpool "github.com/ajitpratap0/colcodec/pkg/strings"
)

// Sentinel terminates every stored row
const Sentinel byte = 0

// StringBlock holds a columnar batch of variable-length byte strings
type StringBlock struct {
	data    []byte
	offsets []uint64
}

// NewStringBlock adopts data and offsets after checking every block
// invariant. The block takes ownership of both slices.
func NewStringBlock(data []byte, offsets []uint64) (*StringBlock, error) {
	b := &StringBlock{data: data, offsets: offsets}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// WrapStringBlock adopts data and offsets without validation. The caller
// asserts the invariants hold; it exists for producers that construct the
// layout themselves and would otherwise pay for a second pass.
func WrapStringBlock(data []byte, offsets []uint64) *StringBlock {
	return &StringBlock{data: data, offsets: offsets}
}

// FromStrings builds a block holding values in order
func FromStrings(values []string) *StringBlock {
	total := 0
	for _, v := range values {
		total += len(v) + 1
	}
	b := NewStringBlockBuilder(len(values), total)
	for _, v := range values {
		b.AppendString(v)
	}
	return b.Finish()
}

// FromBytes builds a block holding copies of values in order
func FromBytes(values [][]byte) *StringBlock {
	total := 0
	for _, v := range values {
		total += len(v) + 1
	}
	b := NewStringBlockBuilder(len(values), total)
	for _, v := range values {
		b.Append(v)
	}
	return b.Finish()
}

// Validate checks the offsets and sentinel invariants
func (b *StringBlock) Validate() error {
	var prev uint64
	size := uint64(len(b.data))
	for i, off := range b.offsets {
		if off <= prev {
			return errors.Newf(errors.ErrorTypeIllegalColumn,
				"offset %d of row %d does not exceed previous offset %d", off, i, prev).
				WithDetail("row", i)
		}
		if off > size {
			return errors.Newf(errors.ErrorTypeIllegalColumn,
				"offset %d of row %d is past end of data (%d bytes)", off, i, size).
				WithDetail("row", i)
		}
		if b.data[off-1] != Sentinel {
			return errors.Newf(errors.ErrorTypeIllegalColumn,
				"row %d is not terminated by a sentinel byte", i).
				WithDetail("row", i)
		}
		prev = off
	}
	if prev != size {
		return errors.Newf(errors.ErrorTypeIllegalColumn,
			"data has %d trailing bytes after the last row", size-prev)
	}
	return nil
}

func (b *StringBlock) Type() ColumnType { return ColumnTypeString }
func (b *StringBlock) Name() string     { return "String" }
func (b *StringBlock) Len() int         { return len(b.offsets) }

// MemoryUsage returns the bytes held by data plus offsets
func (b *StringBlock) MemoryUsage() int64 {
	return int64(cap(b.data)) + int64(cap(b.offsets))*8
}

// DataLen returns the total stored length including one sentinel per row
func (b *StringBlock) DataLen() int { return len(b.data) }

// Data returns the flat buffer. It must not be modified.
func (b *StringBlock) Data() []byte { return b.data }

// Offsets returns the offsets array. It must not be modified.
func (b *StringBlock) Offsets() []uint64 { return b.offsets }

// RowBounds returns the start position and logical length of row i
func (b *StringBlock) RowBounds(i int) (start, length uint64) {
	if i > 0 {
		start = b.offsets[i-1]
	}
	return start, b.offsets[i] - start - 1
}

// Row returns a view of row i without its sentinel. The view's capacity is
// clamped so appending to it cannot overwrite the sentinel.
func (b *StringBlock) Row(i int) []byte {
	start, length := b.RowBounds(i)
	end := start + length
	return b.data[start:end:end]
}

// RowString returns row i as a string sharing the block's memory
func (b *StringBlock) RowString(i int) string {
	return stringpool.BytesToString(b.Row(i))
}

// Strings copies every row out as a string
func (b *StringBlock) Strings() []string {
	out := make([]string, b.Len())
	for i := range out {
		out[i] = string(b.Row(i))
	}
	return out
}

// TotalLogicalLen returns the sum of row lengths, sentinels excluded
func (b *StringBlock) TotalLogicalLen() int {
	return len(b.data) - len(b.offsets)
}

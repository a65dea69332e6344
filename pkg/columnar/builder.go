package columnar

// StringBlockBuilder appends rows into a new StringBlock
type StringBlockBuilder struct {
	data    []byte
	offsets []uint64
}

// NewStringBlockBuilder creates a builder sized for rows rows and reserve
// data bytes (sentinels included)
func NewStringBlockBuilder(rows, reserve int) *StringBlockBuilder {
	return &StringBlockBuilder{
		data:    make([]byte, 0, reserve),
		offsets: make([]uint64, 0, rows),
	}
}

// Append copies v as the next row
func (b *StringBlockBuilder) Append(v []byte) {
	b.data = append(b.data, v...)
	b.data = append(b.data, Sentinel)
	b.offsets = append(b.offsets, uint64(len(b.data)))
}

// AppendString copies s as the next row
func (b *StringBlockBuilder) AppendString(s string) {
	b.data = append(b.data, s...)
	b.data = append(b.data, Sentinel)
	b.offsets = append(b.offsets, uint64(len(b.data)))
}

// Len returns the number of rows appended so far
func (b *StringBlockBuilder) Len() int { return len(b.offsets) }

// DataLen returns the bytes appended so far, sentinels included
func (b *StringBlockBuilder) DataLen() int { return len(b.data) }

// Finish returns the built block and resets the builder. The builder must
// not be reused for the same block afterwards.
func (b *StringBlockBuilder) Finish() *StringBlock {
	block := WrapStringBlock(b.data, b.offsets)
	b.data = nil
	b.offsets = nil
	return block
}

// Package columnar implements the in-memory column representations that
// colcodec functions consume and produce.
//
// # String blocks
//
// A StringBlock stores N variable-length byte strings in one flat buffer and
// an offsets array of length N:
//
//	data:    a b c \0 \0 x y \0
//	offsets: 4 5 8
//
// offsets[i] is the exclusive end of row i and includes exactly one trailing
// zero sentinel byte, so the logical length of row i is
// offsets[i] - offsets[i-1] - 1 with offsets[-1] = 0. An empty row therefore
// still occupies one byte. The invariants are:
//   - offsets is strictly increasing
//   - data[offsets[i]-1] == 0 for every row
//   - len(data) == offsets[N-1] (0 for an empty block)
//
// A block is immutable once constructed. Row views returned by Row share the
// block's memory and must not be modified.
//
// # Building blocks
//
//	b := columnar.NewStringBlockBuilder(3, 16)
//	b.AppendString("")
//	b.AppendString("a")
//	b.AppendString("ab")
//	block := b.Finish()
//
// # Constant columns
//
// ConstColumn represents one value repeated for a number of rows. Functions
// that support constant folding transform the single stored row and wrap the
// result again rather than materializing every row.
package columnar

package codec

import (
	"slices"

	"github.com/ajitpratap0/colcodec/pkg/codec/backend"
	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/errors"
	stringpool "github.com/ajitpratap0/colcodec/pkg/strings"
)

const (
	// shrinkThreshold is the unused reservation, in bytes, above which the
	// output is copied into a right-sized buffer instead of re-sliced
	shrinkThreshold = 64 << 10
	// maxMessageInput bounds the row content quoted in error messages; the
	// full row is kept in the error details
	maxMessageInput = 1024
)

// Stats describes one Transform call
type Stats struct {
	Rows          int
	InvalidRows   int // rows TryDecode replaced with empty output
	InputBytes    int // input data length, sentinels included
	OutputBytes   int // output data length, sentinels included
	ReservedBytes int // estimate plus backend padding
}

// Transform converts every row of in under mode and returns a new block.
// Under Decode the first invalid row aborts the call with an IncorrectData
// error and no block.
func Transform(in *columnar.StringBlock, mode Mode, be backend.Backend) (*columnar.StringBlock, error) {
	out, _, err := TransformWithStats(in, mode, be)
	return out, err
}

// TransformWithStats is Transform that also reports sizing and row outcomes
func TransformWithStats(in *columnar.StringBlock, mode Mode, be backend.Backend) (*columnar.StringBlock, Stats, error) {
	var stats Stats
	if in == nil {
		return nil, stats, errors.New(errors.ErrorTypeIllegalColumn, "input block is nil")
	}
	if !mode.Valid() {
		return nil, stats, errors.Newf(errors.ErrorTypeInternal, "invalid mode %d", int(mode))
	}
	if be == nil {
		return nil, stats, errors.New(errors.ErrorTypeConfig, "no codec backend configured")
	}

	srcData := in.Data()
	srcOffsets := in.Offsets()
	rows := len(srcOffsets)

	reserve := int(EstimateBufferSize(mode, uint64(len(srcData)), uint64(rows))) + be.Padding()
	data := make([]byte, reserve)
	offsets := make([]uint64, rows)

	stats.Rows = rows
	stats.InputBytes = len(srcData)
	stats.ReservedBytes = reserve

	cursor := 0
	var prev uint64
	for row := 0; row < rows; row++ {
		end := srcOffsets[row]
		if end <= prev || end > uint64(len(srcData)) || srcData[end-1] != columnar.Sentinel {
			return nil, stats, errors.Newf(errors.ErrorTypeIllegalColumn,
				"malformed String block: row %d ends at offset %d after %d of %d bytes",
				row, end, prev, len(srcData)).
				WithDetail("row", row)
		}
		src := srcData[prev : end-1 : end-1]
		dst := data[cursor:]

		// The cursor only moves after the row is accepted, so it doubles as
		// the savepoint TryDecode falls back to.
		n := 0
		switch mode {
		case Encode:
			n = be.EncodeRow(dst, src)
		case Decode:
			if len(src) > 0 {
				n = be.DecodeRow(dst, src)
				if n == 0 {
					return nil, stats, incorrectData(mode, row, src)
				}
			}
		case TryDecode:
			if len(src) > 0 {
				n = be.DecodeRow(dst, src)
				if n == 0 {
					stats.InvalidRows++
				}
			}
		}

		// Room for the sentinel must remain after the reported output.
		if n < 0 || n >= len(dst) {
			return nil, stats, errors.Newf(errors.ErrorTypeInternal,
				"backend %s reported %d bytes for row %d with %d bytes available",
				be.Name(), n, row, len(dst)).
				WithDetail("row", row)
		}

		cursor += n
		data[cursor] = columnar.Sentinel
		cursor++
		offsets[row] = uint64(cursor)
		prev = end
	}

	stats.OutputBytes = cursor
	return columnar.WrapStringBlock(shrink(data, cursor), offsets), stats, nil
}

// shrink drops the unused tail of the reservation. Bytes past n may hold
// backend scratch and are never reachable from the result.
func shrink(data []byte, n int) []byte {
	if slack := len(data) - n; slack > shrinkThreshold && slack > n/2 {
		out := make([]byte, n)
		copy(out, data)
		return out
	}
	return slices.Clip(data[:n])
}

func incorrectData(mode Mode, row int, src []byte) error {
	input := string(src)
	return errors.Newf(errors.ErrorTypeIncorrectData, "Failed to %s input '%s'",
		mode.FunctionName(), stringpool.Truncate(input, maxMessageInput)).
		WithDetail("row", row).
		WithDetail("input", input)
}

package codec

// EstimateBufferSize returns an upper bound on the output data length for a
// block of rows rows whose data occupies dataLen bytes, sentinels included.
// The bound covers one output sentinel per row.
//
//	Encode:           ((L-N)/3 + N)*4 + N
//	Decode/TryDecode: ((L-N)/4 + N)*3 + N
//
// Each row contributes at most floor(len/3)+1 encoded groups (or
// floor(len/4)+1 decoded groups), and the floors summed over rows never
// exceed the floor of the summed lengths, so the bound holds for any split of
// L-N bytes into N rows. A dataLen below rows cannot come from a valid block
// and is treated as zero logical bytes.
func EstimateBufferSize(mode Mode, dataLen, rows uint64) uint64 {
	var logical uint64
	if dataLen > rows {
		logical = dataLen - rows
	}

	switch mode {
	case Encode:
		return (logical/3+rows)*4 + rows
	default:
		return (logical/4+rows)*3 + rows
	}
}

// MaxRowOutput returns the most bytes a single row of length n can produce
// under mode, sentinel excluded
func MaxRowOutput(mode Mode, n int) int {
	if mode == Encode {
		return (n + 2) / 3 * 4
	}
	return n / 4 * 3
}

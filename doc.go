// Package colcodec converts whole columns of variable-length byte strings
// between raw bytes and padded base64 text.
//
// The unit of work is a block: a flat data buffer plus an offsets array,
// one sentinel-terminated string per row (see pkg/columnar). A block is
// transformed in one pass under one of three modes:
//
//	base64Encode     raw bytes to base64, cannot fail
//	base64Decode     base64 to raw bytes, an invalid row fails the whole block
//	tryBase64Decode  base64 to raw bytes, invalid rows become empty strings
//
// # Architecture
//
//   - pkg/columnar: String blocks, constant columns and Arrow conversion
//   - pkg/codec: output size estimation, the row driver and mode policies
//   - pkg/codec/backend: pluggable per-row transcoders selected once at startup
//   - pkg/functions: the three named column functions with argument checks
//   - internal/pipeline: ordered multi-block execution for the CLI
//   - cmd/colcodec: command-line interface
//
// # Quick Start
//
//	be, _ := backend.Lookup(backend.AutoName)
//	block := columnar.FromStrings([]string{"", "a", "ab"})
//	out, err := codec.Transform(block, codec.Encode, be)
//	// out.Strings() == []string{"", "YQ==", "YWI="}
//
// Through the function registry, with argument validation and constant
// folding:
//
//	registry, _ := functions.Default()
//	col, err := registry.Execute(ctx, "tryBase64Decode", []columnar.Column{block}, block.Len())
//
// From the command line:
//
//	colcodec encode rows.txt -o encoded.txt.zst
//	colcodec decode encoded.txt.zst --workers 8
//	colcodec try-decode --input-format arrow --output-format json < in.arrow
package colcodec

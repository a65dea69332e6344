// Package codec transforms whole String blocks between raw bytes and padded
// base64 text.
//
// Transform walks a block's rows in order, hands each row to a
// backend.Backend and assembles a new block. The output buffer is reserved
// once up front from EstimateBufferSize, every backend call receives a
// bounds-checked slice of the remaining reservation, and the buffer is trimmed
// to the written length at the end.
//
// Three modes share the loop:
//
//	Encode     always succeeds; empty rows encode to empty rows
//	Decode     fails the whole block with IncorrectData on the first invalid row
//	TryDecode  replaces invalid rows with empty rows and never fails on content
//
// A block is processed by one goroutine. Independent blocks may be
// transformed concurrently because each call owns its output exclusively.
package codec

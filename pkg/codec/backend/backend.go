// Package backend defines the per-row base64 primitive that the codec driver
// delegates to, together with the built-in implementations.
//
// A Backend converts one row at a time. The driver hands every call a
// destination slice covering the remaining reserved output capacity, which is
// always at least the worst-case output for the row plus Padding() bytes.
// A backend may write up to Padding() bytes past the length it reports; those
// bytes are scratch and are never part of the logical output. The driver
// overwrites them with the row sentinel or the next row, or trims them when
// the block is finished.
//
// Backends must be safe for concurrent use by independent blocks. The
// built-in ones are stateless.
package backend

// Backend is the pluggable alphabet-level transcoder
type Backend interface {
	// Name identifies the backend in configuration and metrics
	Name() string

	// EncodeRow writes the padded base64 encoding of src into dst and
	// returns the number of bytes written. Encoding cannot fail.
	EncodeRow(dst, src []byte) int

	// DecodeRow decodes padded base64 src into dst and returns the number of
	// bytes written. It returns 0 when src is not valid base64; any bytes
	// written before the failure was detected are scratch.
	DecodeRow(dst, src []byte) int

	// Padding is the maximum number of bytes the backend may touch past the
	// length it reports
	Padding() int
}

// EncodedLen returns the exact padded base64 length for n input bytes
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// MaxDecodedLen returns an upper bound on the decoded size of n encoded bytes
func MaxDecodedLen(n int) int {
	return (n + 3) / 4 * 3
}

package backend

import (
	"bytes"
	"encoding/base64"
)

// StdName is the registry name of the portable backend
const StdName = "std"

// stdBackend is the portable reference backend on encoding/base64
type stdBackend struct{}

// NewStd returns the portable reference backend
func NewStd() Backend { return stdBackend{} }

func (stdBackend) Name() string { return StdName }

// Padding covers the decoder's fast path, which stores eight bytes per six
// decoded.
func (stdBackend) Padding() int { return 2 }

func (stdBackend) EncodeRow(dst, src []byte) int {
	n := base64.StdEncoding.EncodedLen(len(src))
	base64.StdEncoding.Encode(dst[:n], src)
	return n
}

func (stdBackend) DecodeRow(dst, src []byte) int {
	// encoding/base64 silently skips CR and LF; rows containing them are not
	// valid encoded values.
	if bytes.IndexByte(src, '\n') >= 0 || bytes.IndexByte(src, '\r') >= 0 {
		return 0
	}
	n, err := base64.StdEncoding.Decode(dst, src)
	if err != nil {
		return 0
	}
	return n
}

package codec

import (
	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// Mode selects the conversion direction and failure policy
type Mode int

const (
	// Encode converts raw bytes to padded base64
	Encode Mode = iota
	// Decode converts base64 to raw bytes and fails on invalid rows
	Decode
	// TryDecode converts base64 to raw bytes, emitting empty rows for invalid input
	TryDecode
)

// Modes lists every mode in declaration order
var Modes = []Mode{Encode, Decode, TryDecode}

// String returns the short mode name
func (m Mode) String() string {
	switch m {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	case TryDecode:
		return "try-decode"
	default:
		return "unknown"
	}
}

// FunctionName returns the column function name bound to the mode
func (m Mode) FunctionName() string {
	switch m {
	case Encode:
		return "base64Encode"
	case Decode:
		return "base64Decode"
	case TryDecode:
		return "tryBase64Decode"
	default:
		return ""
	}
}

// Decodes reports whether the mode converts base64 to raw bytes
func (m Mode) Decodes() bool { return m == Decode || m == TryDecode }

// Valid reports whether m is one of the declared modes
func (m Mode) Valid() bool { return m >= Encode && m <= TryDecode }

// ParseMode accepts a short mode name or a function name
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if s == m.String() || s == m.FunctionName() {
			return m, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeConfig, "unknown mode %q", s)
}

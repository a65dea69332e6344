package backend

import (
	"encoding/binary"
)

// WideName is the registry name of the word-store backend
const WideName = "wide"

const (
	encodeStd = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	padChar   = '='
	// invalid has the top two bits set, which no 6-bit value does
	invalid = 0xff
)

var decodeMap = func() (m [256]byte) {
	for i := range m {
		m[i] = invalid
	}
	for i := 0; i < len(encodeStd); i++ {
		m[encodeStd[i]] = byte(i)
	}
	return m
}()

// wideBackend converts whole groups through 32-bit stores. Each decoded
// group of three bytes is written as one four-byte word, so a padded final
// group may touch up to three bytes past the reported length.
type wideBackend struct{}

// NewWide returns the word-store backend
func NewWide() Backend { return wideBackend{} }

func (wideBackend) Name() string { return WideName }
func (wideBackend) Padding() int { return 3 }

func (wideBackend) EncodeRow(dst, src []byte) int {
	di, si := 0, 0
	n := (len(src) / 3) * 3
	for si < n {
		v := uint(src[si])<<16 | uint(src[si+1])<<8 | uint(src[si+2])
		binary.BigEndian.PutUint32(dst[di:],
			uint32(encodeStd[v>>18&0x3f])<<24|
				uint32(encodeStd[v>>12&0x3f])<<16|
				uint32(encodeStd[v>>6&0x3f])<<8|
				uint32(encodeStd[v&0x3f]))
		si += 3
		di += 4
	}

	switch len(src) - si {
	case 1:
		v := uint(src[si]) << 16
		dst[di] = encodeStd[v>>18&0x3f]
		dst[di+1] = encodeStd[v>>12&0x3f]
		dst[di+2] = padChar
		dst[di+3] = padChar
		di += 4
	case 2:
		v := uint(src[si])<<16 | uint(src[si+1])<<8
		dst[di] = encodeStd[v>>18&0x3f]
		dst[di+1] = encodeStd[v>>12&0x3f]
		dst[di+2] = encodeStd[v>>6&0x3f]
		dst[di+3] = padChar
		di += 4
	}
	return di
}

func (wideBackend) DecodeRow(dst, src []byte) int {
	if len(src) == 0 || len(src)%4 != 0 {
		return 0
	}

	di := 0
	last := len(src) - 4
	for si := 0; si < last; si += 4 {
		a, b, c, d := decodeMap[src[si]], decodeMap[src[si+1]], decodeMap[src[si+2]], decodeMap[src[si+3]]
		if (a|b|c|d)&0xc0 != 0 {
			return 0
		}
		v := uint32(a)<<18 | uint32(b)<<12 | uint32(c)<<6 | uint32(d)
		putGroup(dst[di:], v)
		di += 3
	}

	// Final group, the only place padding may appear.
	a, b := decodeMap[src[last]], decodeMap[src[last+1]]
	if a == invalid || b == invalid {
		return 0
	}
	c3, c4 := src[last+2], src[last+3]
	switch {
	case c3 == padChar && c4 == padChar:
		v := uint32(a)<<18 | uint32(b)<<12
		putGroup(dst[di:], v)
		return di + 1
	case c4 == padChar:
		c := decodeMap[c3]
		if c == invalid {
			return 0
		}
		v := uint32(a)<<18 | uint32(b)<<12 | uint32(c)<<6
		putGroup(dst[di:], v)
		return di + 2
	default:
		c, d := decodeMap[c3], decodeMap[c4]
		if c == invalid || d == invalid {
			return 0
		}
		v := uint32(a)<<18 | uint32(b)<<12 | uint32(c)<<6 | uint32(d)
		putGroup(dst[di:], v)
		return di + 3
	}
}

// putGroup stores the 24-bit group v. It uses a single word store when dst
// has room for it and falls back to byte stores at the very end of dst.
func putGroup(dst []byte, v uint32) {
	if len(dst) >= 4 {
		binary.BigEndian.PutUint32(dst, v<<8)
		return
	}
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

// Package strings provides zero-copy string helpers for colcodec
package strings

import (
	"fmt"
	"strings"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts string to byte slice without allocation
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Sprintf formats without the fmt overhead when there is nothing to format
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Truncate shortens s to at most max bytes, appending an ellipsis marker
// when anything was cut. Used to keep row content in error messages bounded.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	var b strings.Builder
	b.Grow(max + 3)
	b.WriteString(s[:max])
	b.WriteString("...")
	return b.String()
}

package strings

import (
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf("plain"); got != "plain" {
		t.Errorf("expected 'plain', got '%s'", got)
	}
	if got := Sprintf("row %d", 3); got != "row 3" {
		t.Errorf("expected 'row 3', got '%s'", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"toolongvalue", 4, "tool..."},
		{"unbounded", 0, "unbounded"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

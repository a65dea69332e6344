// Package testutil provides testing utilities for colcodec
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/colcodec/pkg/columnar"
	"github.com/ajitpratap0/colcodec/pkg/logger"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// UseTestLogger routes the global logger to the test output for the
// duration of the test.
func UseTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	prev := logger.Get()
	l := zaptest.NewLogger(t)
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
	return l
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RequireNoError fails the test immediately if err is not nil.
// The msg parameter provides additional context in the failure message.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// RequireStrings fails the test unless col is a valid String block holding
// exactly want.
func RequireStrings(t *testing.T, col columnar.Column, want ...string) {
	t.Helper()
	block, ok := col.(*columnar.StringBlock)
	if !ok {
		t.Fatalf("expected *columnar.StringBlock, got %T", col)
	}
	if err := block.Validate(); err != nil {
		t.Fatalf("invalid block: %v", err)
	}
	got := block.Strings()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

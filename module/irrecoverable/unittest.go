package irrecoverable

import (
	"context"
	"runtime"
	"testing"
)

// MockSignalerContext is a SignalerContext for tests. Any thrown error fails the test, except the
// one passed to NewMockSignalerContextExpectError, which terminates the throwing goroutine.
type MockSignalerContext struct {
	context.Context
	t           *testing.T
	expectError error
}

var _ SignalerContext = &MockSignalerContext{}

func (m MockSignalerContext) sealed() {}

func (m MockSignalerContext) Throw(err error) {
	if m.expectError != nil && err.Error() == m.expectError.Error() {
		runtime.Goexit()
	}
	m.t.Fatalf("mock signaler context received error: %v", err)
}

func NewMockSignalerContext(t *testing.T, ctx context.Context) *MockSignalerContext {
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
	}
}

// NewMockSignalerContextExpectError tolerates err, matched by message, and fails the test on any other.
func NewMockSignalerContextExpectError(t *testing.T, ctx context.Context, err error) *MockSignalerContext {
	return &MockSignalerContext{
		Context:     ctx,
		t:           t,
		expectError: err,
	}
}

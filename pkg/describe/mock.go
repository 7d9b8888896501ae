package describe

import (
	"context"
	"sync"
	"time"

	"github.com/intelevision/go-intelevision/pkg/summary"
)

// Mock implements Describer for testing.
type Mock struct {
	// DescribeFunc is called when Describe is invoked.
	DescribeFunc func(ctx context.Context, sum *summary.SceneSummary) (string, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock describer that returns a fixed response.
func NewMock() *Mock {
	return &Mock{
		DescribeFunc: func(ctx context.Context, sum *summary.SceneSummary) (string, error) {
			return "mock description", nil
		},
	}
}

// WithError returns a mock that always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		DescribeFunc: func(ctx context.Context, sum *summary.SceneSummary) (string, error) {
			return "", err
		},
	}
}

// Describe calls DescribeFunc and records the call.
func (m *Mock) Describe(ctx context.Context, sum *summary.SceneSummary) (string, error) {
	m.record("Describe")
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, sum)
	}
	return "", WrapError("mock", ErrUnavailable)
}

// Name identifies the mock.
func (m *Mock) Name() string { return "mock" }

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Time: time.Now()})
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Describer at compile time.
var _ Describer = (*Mock)(nil)

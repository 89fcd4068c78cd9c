package camera

import "sync"

// Mock implements Source for testing.
type Mock struct {
	// CaptureFunc is called when CaptureJPEG is invoked.
	CaptureFunc func() ([]byte, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu       sync.Mutex
	captures int
}

// NewMock creates a mock that always returns the given frame.
func NewMock(frame []byte) *Mock {
	return &Mock{
		CaptureFunc: func() ([]byte, error) {
			return frame, nil
		},
	}
}

// CaptureJPEG calls CaptureFunc and counts the call.
func (m *Mock) CaptureJPEG() ([]byte, error) {
	m.mu.Lock()
	m.captures++
	m.mu.Unlock()

	if m.CaptureFunc != nil {
		return m.CaptureFunc()
	}
	return nil, ErrClosed
}

// Close calls CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Captures returns how many frames were requested.
func (m *Mock) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures
}

var _ Source = (*Mock)(nil)

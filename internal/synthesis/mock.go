package synthesis

import (
	"context"
	"sync"
)

// MockEngine records every request and answers with canned audio. Used by
// tests and by dry runs that exercise the pipeline without an engine.
type MockEngine struct {
	mu       sync.Mutex
	requests []Request

	Audio []byte
	Err   error
}

// NewMockEngine returns a mock that answers every call with audio.
func NewMockEngine(audio []byte) *MockEngine {
	return &MockEngine{Audio: audio}
}

func (m *MockEngine) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Audio, nil
}

// Requests returns a copy of every request seen so far.
func (m *MockEngine) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

package storage

import (
	"context"
	"io"
	"sync"
)

// MockUploader keeps uploads in memory. Used by tests and dry runs.
type MockUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	Prefix    string
	UploadErr error
	BucketErr error
}

// NewMockUploader returns an empty in-memory uploader.
func NewMockUploader(prefix string) *MockUploader {
	return &MockUploader{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		Prefix:  prefix,
	}
}

func (m *MockUploader) EnsureBucket(_ context.Context) error {
	return m.BucketErr
}

func (m *MockUploader) Upload(_ context.Context, remotePath string, data io.Reader, contentType string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[remotePath] = body
	m.types[remotePath] = contentType
	m.mu.Unlock()
	return m.Prefix + "/" + remotePath, nil
}

// Object returns the stored bytes and content type for a path.
func (m *MockUploader) Object(remotePath string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[remotePath]
	return body, m.types[remotePath], ok
}

// Paths lists every stored remote path.
func (m *MockUploader) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.objects))
	for path := range m.objects {
		paths = append(paths, path)
	}
	return paths
}

var _ Uploader = (*MockUploader)(nil)

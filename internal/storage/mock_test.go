package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockUploaderStoresObjects(t *testing.T) {
	mock := NewMockUploader("https://cdn.example.com")
	url, err := mock.Upload(context.Background(), "slug/ep.mp3", strings.NewReader("audio"), "audio/mpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/slug/ep.mp3" {
		t.Fatalf("url = %q", url)
	}
	body, contentType, ok := mock.Object("slug/ep.mp3")
	if !ok || string(body) != "audio" || contentType != "audio/mpeg" {
		t.Fatalf("object = %q %q %v", body, contentType, ok)
	}
}

func TestMockUploaderErrorPassthrough(t *testing.T) {
	mock := NewMockUploader("https://cdn.example.com")
	mock.UploadErr = errors.New("denied")
	if _, err := mock.Upload(context.Background(), "x", strings.NewReader(""), ""); err == nil {
		t.Fatal("expected configured error")
	}
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// recordingSource remembers the last reference it was asked for.
type recordingSource struct {
	lastRef string
}

func (s *recordingSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.lastRef = ref
	return []byte(ref), nil
}

func TestResolver_RoutesHTTPURLs(t *testing.T) {
	file := &recordingSource{}
	web := &recordingSource{}
	resolver := NewResolver(file, web, nil)

	for _, ref := range []string{"http://example.com/a.jpg", "https://example.com/b.png"} {
		if _, err := resolver.Fetch(context.Background(), ref); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if web.lastRef != ref {
			t.Errorf("Expected HTTP source to serve %s, got %s", ref, web.lastRef)
		}
	}
	if file.lastRef != "" {
		t.Errorf("Expected file source to stay untouched, got %s", file.lastRef)
	}
}

func TestResolver_RoutesAzureBlobURLs(t *testing.T) {
	web := &recordingSource{}
	azure := &recordingSource{}
	resolver := NewResolver(nil, web, azure)

	ref := "https://myaccount.blob.core.windows.net/images/photo.jpg"
	if _, err := resolver.Fetch(context.Background(), ref); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if azure.lastRef != ref {
		t.Errorf("Expected azure source to serve %s, got %s", ref, azure.lastRef)
	}
	if web.lastRef != "" {
		t.Errorf("Expected HTTP source to stay untouched, got %s", web.lastRef)
	}
}

func TestResolver_BlobURLFallsBackToHTTP(t *testing.T) {
	web := &recordingSource{}
	resolver := NewResolver(nil, web, nil)

	ref := "https://myaccount.blob.core.windows.net/images/photo.jpg"
	if _, err := resolver.Fetch(context.Background(), ref); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if web.lastRef != ref {
		t.Errorf("Expected HTTP fallback without an azure source, got %s", web.lastRef)
	}
}

func TestResolver_RoutesLocalPaths(t *testing.T) {
	file := &recordingSource{}
	resolver := NewResolver(file, &recordingSource{}, nil)

	for _, ref := range []string{"/tmp/photo.jpg", "relative/photo.png"} {
		if _, err := resolver.Fetch(context.Background(), ref); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if file.lastRef != ref {
			t.Errorf("Expected file source to serve %s, got %s", ref, file.lastRef)
		}
	}
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource()
	data, err := source.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("Unexpected data: %s", data)
	}
}

func TestFileSource_NotFound(t *testing.T) {
	source := NewFileSource()
	if _, err := source.Fetch(context.Background(), "/no/such/file.jpg"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFileSource_Directory(t *testing.T) {
	source := NewFileSource()
	if _, err := source.Fetch(context.Background(), t.TempDir()); err == nil {
		t.Error("Expected error for directory path")
	}
}

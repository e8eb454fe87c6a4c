package storage

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads images from the local filesystem.
type FileSource struct{}

// NewFileSource creates a local file image source.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Fetch reads the file at ref.
func (s *FileSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("image file not found: %s", ref)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image path is a directory: %s", ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

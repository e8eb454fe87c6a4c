package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ImageSource retrieves the raw bytes of an image reference.
type ImageSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Resolver routes an image reference to the source that can serve it:
// Azure Blob URLs to the blob source when one is configured, other HTTP(S)
// URLs to the HTTP source, and everything else to the local file source.
type Resolver struct {
	file  ImageSource
	http  ImageSource
	azure ImageSource
}

// NewResolver creates a resolver over the given sources. The azure source
// may be nil when no storage account is configured.
func NewResolver(file, http, azure ImageSource) *Resolver {
	return &Resolver{file: file, http: http, azure: azure}
}

// Fetch retrieves the bytes behind ref using the matching source.
func (r *Resolver) Fetch(ctx context.Context, ref string) ([]byte, error) {
	parsed, err := url.Parse(ref)
	if err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		if r.azure != nil && strings.HasSuffix(parsed.Hostname(), ".blob.core.windows.net") {
			return r.azure.Fetch(ctx, ref)
		}
		if r.http == nil {
			return nil, fmt.Errorf("no HTTP source configured for %q", ref)
		}
		return r.http.Fetch(ctx, ref)
	}
	if r.file == nil {
		return nil, fmt.Errorf("no file source configured for %q", ref)
	}
	return r.file.Fetch(ctx, ref)
}

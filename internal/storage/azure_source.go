package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureSource fetches images from Azure Blob Storage.
type AzureSource struct {
	client *azblob.Client
}

// NewAzureSource creates a blob-backed image source using shared key
// credentials.
func NewAzureSource(accountName, accountKey string) (*AzureSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &AzureSource{client: client}, nil
}

// Fetch downloads the blob behind a URL of the form
// https://<account>.blob.core.windows.net/<container>/<blob>.
func (s *AzureSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName, blobName, ok := strings.Cut(strings.TrimPrefix(parsed.Path, "/"), "/")
	if !ok || containerName == "" || blobName == "" {
		return nil, fmt.Errorf("blob URL must name a container and a blob: %s", ref)
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("blob download failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSource fetches images over HTTP(S) with bounded retries.
type HTTPSource struct {
	client       *http.Client
	maxAttempts  int
	maxImageSize int64
}

// NewHTTPSource creates an HTTP image source. Transient failures and 5xx
// responses are retried with linear backoff; 4xx responses are not.
func NewHTTPSource(maxImageSize int64) *HTTPSource {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxAttempts:  3,
		maxImageSize: maxImageSize,
	}
}

// Fetch downloads the image at ref.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		data, retryable, err := s.fetchOnce(ctx, ref)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context, ref string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "go-vision-tools/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	default:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "application/octet-stream") {
		return nil, false, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}

	reader := io.Reader(resp.Body)
	if s.maxImageSize > 0 {
		reader = io.LimitReader(resp.Body, s.maxImageSize+1)
	}
	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read image data: %w", err)
	}
	if s.maxImageSize > 0 && int64(len(data)) > s.maxImageSize {
		return nil, false, fmt.Errorf("image exceeds maximum size of %d bytes", s.maxImageSize)
	}
	return data, false, nil
}

package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/sirupsen/logrus"

	apperrors "go-vision-tools/internal/errors"
	"go-vision-tools/internal/logger"
	"go-vision-tools/internal/storage"
	"go-vision-tools/pkg/models"
)

// defaultCallTimeout bounds a single inference call when the caller supplies
// no deadline of its own.
const defaultCallTimeout = 300 * time.Second

// Client is an Ollama-backed vision capability. It owns image preparation
// (fetch, decode, downscale) and prompt construction; the hosted model does
// the inference.
type Client struct {
	api          *api.Client
	model        string
	images       *storage.Resolver
	maxDimension int
}

// NewClient creates a vision client against the Ollama server at ollamaURL.
func NewClient(ollamaURL, model string, images *storage.Resolver, maxDimension int) (*Client, error) {
	parsed, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	baseURL := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	client := api.NewClient(baseURL, http.DefaultClient)

	logger.WithFields(logrus.Fields{
		"ollama_url": baseURL.String(),
		"model":      model,
	}).Info("Vision capability initialized")

	return &Client{
		api:          client,
		model:        model,
		images:       images,
		maxDimension: maxDimension,
	}, nil
}

// Caption generates a caption for the referenced image.
func (c *Client) Caption(ctx context.Context, imageRef string, length models.CaptionLength, stream bool) (*models.CaptionPayload, time.Duration, error) {
	start := time.Now()
	content, err := c.chat(ctx, imageRef, captionPrompt(length), stream)
	if err != nil {
		return nil, 0, err
	}
	return &models.CaptionPayload{
		Caption: strings.TrimSpace(content),
		Length:  length,
	}, time.Since(start), nil
}

// Query answers a question about the referenced image.
func (c *Client) Query(ctx context.Context, imageRef, question string) (*models.QueryPayload, time.Duration, error) {
	start := time.Now()
	content, err := c.chat(ctx, imageRef, queryPrompt(question), false)
	if err != nil {
		return nil, 0, err
	}
	return &models.QueryPayload{
		Answer:   strings.TrimSpace(content),
		Question: question,
	}, time.Since(start), nil
}

// Detect finds bounding boxes for the named object in the referenced image.
func (c *Client) Detect(ctx context.Context, imageRef, objectName string) (*models.DetectPayload, time.Duration, error) {
	start := time.Now()
	content, err := c.chat(ctx, imageRef, detectPrompt(objectName), false)
	if err != nil {
		return nil, 0, err
	}

	objects, err := parseDetectResponse(content)
	if err != nil {
		return nil, 0, apperrors.NewImageProcessingError("failed to parse detection response", err)
	}

	return &models.DetectPayload{
		Objects:    objects,
		ObjectName: objectName,
		TotalFound: len(objects),
	}, time.Since(start), nil
}

// Point finds normalized coordinates for the named object in the referenced
// image.
func (c *Client) Point(ctx context.Context, imageRef, objectName string) (*models.PointPayload, time.Duration, error) {
	start := time.Now()
	content, err := c.chat(ctx, imageRef, pointPrompt(objectName), false)
	if err != nil {
		return nil, 0, err
	}

	points, err := parsePointResponse(content)
	if err != nil {
		return nil, 0, apperrors.NewImageProcessingError("failed to parse pointing response", err)
	}

	return &models.PointPayload{
		Points:     points,
		ObjectName: objectName,
		TotalFound: len(points),
	}, time.Since(start), nil
}

// Close releases client resources. The Ollama server owns the model itself,
// so there is nothing to unload here.
func (c *Client) Close() error {
	return nil
}

// chat prepares the referenced image and runs a single chat turn against the
// vision model, accumulating the full response content.
func (c *Client) chat(ctx context.Context, imageRef, prompt string, stream bool) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}

	imageData, err := c.prepareImage(ctx, imageRef)
	if err != nil {
		return "", err
	}

	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{imageData},
			},
		},
		Stream: &stream,
	}

	var content strings.Builder
	err = c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		if isModelLoadError(err) {
			return "", apperrors.NewModelLoadError(
				fmt.Sprintf("failed to load model %q: %v", c.model, err), err)
		}
		return "", fmt.Errorf("ollama chat error: %w", err)
	}

	if content.Len() == 0 {
		return "", apperrors.NewImageProcessingError("empty response from vision model", nil)
	}
	return content.String(), nil
}

// isModelLoadError reports whether an Ollama failure means the backing model
// could not be loaded or reached, as opposed to a bad request or transport
// hiccup.
func isModelLoadError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"model not found",
		"no such model",
		"pull model",
		"try pulling it first",
		"failed to load model",
		"out of memory",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

package container

import (
	"fmt"
	"net/http"

	"go-vision-tools/internal/config"
	"go-vision-tools/internal/logger"
	"go-vision-tools/internal/observer"
	"go-vision-tools/internal/service"
	"go-vision-tools/internal/storage"
	"go-vision-tools/internal/tools"
	"go-vision-tools/internal/transport"
	"go-vision-tools/internal/vision"
	"go-vision-tools/internal/vision/ollama"
)

// Container wires the application's dependencies together.
type Container struct {
	config     *config.Config
	capability vision.Capability
	service    service.VisionService
	registry   *tools.Registry
	handler    http.Handler
}

// NewContainer builds the full dependency graph from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	fileSource := storage.NewFileSource()
	httpSource := storage.NewHTTPSource(cfg.MaxImageSize)

	// A nil *AzureSource must not reach the resolver as a non-nil interface.
	var azureSource storage.ImageSource
	if cfg.AzureAccountName != "" {
		src, err := storage.NewAzureSource(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize azure image source: %w", err)
		}
		azureSource = src
		logger.WithField("account", cfg.AzureAccountName).Info("Azure image source enabled")
	}

	resolver := storage.NewResolver(fileSource, httpSource, azureSource)

	capability, err := ollama.NewClient(cfg.OllamaURL, cfg.VisionModel, resolver, cfg.MaxImageDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vision client: %w", err)
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics := observer.NewMetricsObserver()
	events.Subscribe(metrics)

	svc := service.NewVisionService(capability, cfg.MaxBatchSize, cfg.BatchConcurrency,
		service.WithEvents(events),
		service.WithOperationTimeout(cfg.OperationTimeout))

	registry := tools.NewRegistry()
	tools.RegisterVisionTools(registry, svc, cfg.MaxBatchSize)

	return &Container{
		config:     cfg,
		capability: capability,
		service:    svc,
		registry:   registry,
		handler:    transport.NewHandler(registry, cfg, metrics),
	}, nil
}

// Handler returns the HTTP handler serving the tool endpoints.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration the container was built with.
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.capability != nil {
		return c.capability.Close()
	}
	return nil
}

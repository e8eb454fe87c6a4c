package transport

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-vision-tools/internal/config"
	"go-vision-tools/internal/logger"
	"go-vision-tools/internal/observer"
	"go-vision-tools/internal/tools"
)

// ErrorResponse is the transport-level error shape for requests that never
// reach a tool handler.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP handler exposing the tool registry. The metrics
// observer may be nil, in which case no metrics endpoint is served.
func NewHandler(registry *tools.Registry, cfg *config.Config, metrics *observer.MetricsObserver) http.Handler {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/tools", listTools(registry))
	r.POST("/tools/:name", invokeTool(registry))
	if metrics != nil {
		r.GET("/metrics", func(c *gin.Context) {
			c.JSON(http.StatusOK, metrics.GetMetrics())
		})
	}

	return r
}

func invokeTool(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		name := c.Param("name")

		tool, ok := registry.Get(name)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
				Error:   http.StatusText(http.StatusNotFound),
				Message: "unknown tool: " + name,
			})
			return
		}

		args := tools.Arguments{}
		if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"tool":       name,
			}).Error("Invalid request body")
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Error:   http.StatusText(http.StatusBadRequest),
				Message: "request body must be a JSON object",
			})
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"tool":       name,
			"ip":         c.ClientIP(),
		}).Info("Invoking tool")

		// Operation deadlines are owned by the service layer, per call,
		// so queued batch items do not share one draining budget.
		result := tool.Handler(c.Request.Context(), args)

		logger.WithFields(logrus.Fields{
			"request_id":  c.GetString("request_id"),
			"tool":        name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Tool invocation completed")

		c.Data(http.StatusOK, "application/json", []byte(result))
	}
}

func listTools(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": registry.List()})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

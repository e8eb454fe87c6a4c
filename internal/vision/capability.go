package vision

import (
	"context"
	"time"

	"go-vision-tools/pkg/models"
)

// Capability is the external vision inference boundary. Implementations own
// the model lifetime; every call is a single attempt that honors the context
// deadline and reports its own elapsed time. A zero duration means the call
// was not measured.
type Capability interface {
	Caption(ctx context.Context, imageRef string, length models.CaptionLength, stream bool) (*models.CaptionPayload, time.Duration, error)
	Query(ctx context.Context, imageRef, question string) (*models.QueryPayload, time.Duration, error)
	Detect(ctx context.Context, imageRef, objectName string) (*models.DetectPayload, time.Duration, error)
	Point(ctx context.Context, imageRef, objectName string) (*models.PointPayload, time.Duration, error)

	// Close releases the underlying model resources. It is called once by
	// the lifecycle owner during shutdown.
	Close() error
}

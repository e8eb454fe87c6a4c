package service

import (
	"context"
	"time"

	apperrors "go-vision-tools/internal/errors"
	"go-vision-tools/internal/observer"
	"go-vision-tools/internal/vision"
	"go-vision-tools/pkg/models"
	"go-vision-tools/pkg/validation"
)

// VisionService routes operation requests to the vision capability and
// normalizes every outcome into a structured envelope.
type VisionService interface {
	// Execute runs a single operation. It never returns an error; all
	// failures are captured in the result envelope.
	Execute(ctx context.Context, req models.OperationRequest) models.OperationResult

	// ExecuteBatch runs one operation across multiple images under a
	// concurrency bound. Only a malformed batch request yields an error;
	// per-item failures land in their slot of the result sequence.
	ExecuteBatch(ctx context.Context, req models.BatchRequest) (*models.BatchResult, error)
}

type visionService struct {
	capability   vision.Capability
	maxBatchSize int
	concurrency  int
	opTimeout    time.Duration
	events       observer.Subject
}

// Option configures a vision service.
type Option func(*visionService)

// WithEvents publishes operation lifecycle events to the given subject.
func WithEvents(events observer.Subject) Option {
	return func(s *visionService) {
		s.events = events
	}
}

// WithOperationTimeout bounds every capability call. Each batch item gets
// its own full budget, independent of time spent queued behind the
// concurrency bound.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *visionService) {
		s.opTimeout = d
	}
}

// NewVisionService creates a service over the injected vision capability.
// batchConcurrency bounds concurrent capability calls during batch
// processing, independently of maxBatchSize.
func NewVisionService(capability vision.Capability, maxBatchSize, batchConcurrency int, opts ...Option) VisionService {
	if maxBatchSize <= 0 {
		maxBatchSize = 10
	}
	if batchConcurrency <= 0 {
		batchConcurrency = 1
	}
	s := &visionService{
		capability:   capability,
		maxBatchSize: maxBatchSize,
		concurrency:  batchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *visionService) Execute(ctx context.Context, req models.OperationRequest) models.OperationResult {
	s.notify(ctx, observer.OperationEvent{
		EventType:      observer.OperationStarted,
		Timestamp:      time.Now(),
		Operation:      req.Operation,
		ImageReference: req.ImageReference,
	})

	result := s.execute(ctx, req)

	event := observer.OperationEvent{
		Timestamp:      time.Now(),
		Operation:      req.Operation,
		ImageReference: req.ImageReference,
		Success:        result.Success,
	}
	if result.Success {
		event.EventType = observer.OperationCompleted
		if result.ProcessingTimeMs != nil {
			event.ProcessingTime = time.Duration(*result.ProcessingTimeMs * float64(time.Millisecond))
		}
	} else {
		event.EventType = observer.OperationFailed
		event.ErrorCode = result.Error.Code
		event.ErrorMessage = result.Error.Message
	}
	s.notify(ctx, event)

	return result
}

func (s *visionService) notify(ctx context.Context, event observer.OperationEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func (s *visionService) execute(ctx context.Context, req models.OperationRequest) models.OperationResult {
	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}

	metadata := map[string]any{"image_reference": req.ImageReference}

	if err := validation.ValidateImageReference(req.ImageReference); err != nil {
		return models.NewFailureResult(apperrors.Classify(err), metadata)
	}

	switch req.Operation {
	case models.OperationCaption:
		params, err := validation.CaptionParamsFrom(req.Parameters)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		payload, elapsed, err := s.capability.Caption(ctx, req.ImageReference, params.Length, params.Stream)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		return models.NewSuccessResult(payload, elapsed, metadata)

	case models.OperationQuery:
		if raw, ok := req.Parameters["question"]; ok {
			metadata["question"] = raw
		}
		params, err := validation.QueryParamsFrom(req.Parameters)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		metadata["question"] = params.Question
		payload, elapsed, err := s.capability.Query(ctx, req.ImageReference, params.Question)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		return models.NewSuccessResult(payload, elapsed, metadata)

	case models.OperationDetect:
		if raw, ok := req.Parameters["object_name"]; ok {
			metadata["object_name"] = raw
		}
		params, err := validation.LocateParamsFrom(req.Parameters, req.Operation)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		metadata["object_name"] = params.ObjectName
		payload, elapsed, err := s.capability.Detect(ctx, req.ImageReference, params.ObjectName)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		return models.NewSuccessResult(payload, elapsed, metadata)

	case models.OperationPoint:
		if raw, ok := req.Parameters["object_name"]; ok {
			metadata["object_name"] = raw
		}
		params, err := validation.LocateParamsFrom(req.Parameters, req.Operation)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		metadata["object_name"] = params.ObjectName
		payload, elapsed, err := s.capability.Point(ctx, req.ImageReference, params.ObjectName)
		if err != nil {
			return models.NewFailureResult(apperrors.Classify(err), metadata)
		}
		return models.NewSuccessResult(payload, elapsed, metadata)

	default:
		// Requests built through the tool layer always carry a parsed
		// operation; this guards direct library use.
		_, err := models.ParseOperation(string(req.Operation))
		return models.NewFailureResult(apperrors.Classify(
			apperrors.NewValidationError(err.Error(), nil)), metadata)
	}
}

func (s *visionService) ExecuteBatch(ctx context.Context, req models.BatchRequest) (*models.BatchResult, error) {
	if err := validation.ValidateBatchSize(req.ImageReferences, s.maxBatchSize); err != nil {
		return nil, err
	}
	if _, err := validation.ParseOperation(string(req.Operation)); err != nil {
		return nil, err
	}

	// Results land at the slot matching their input index regardless of
	// completion order; one slot per goroutine, so no locking is needed.
	results := make([]models.OperationResult, len(req.ImageReferences))

	pool := NewWorkerPool(s.concurrency)
	pool.Start()
	defer pool.Close()

	for i, ref := range req.ImageReferences {
		i, ref := i, ref
		pool.Submit(func() {
			results[i] = s.Execute(ctx, models.OperationRequest{
				ImageReference: ref,
				Operation:      req.Operation,
				Parameters:     req.Parameters,
			})
		})
	}
	pool.Wait()

	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}

	batch := &models.BatchResult{
		Results:        results,
		TotalProcessed: len(results),
		Operation:      req.Operation,
		Parameters:     params,
	}
	for _, r := range results {
		if r.Success {
			batch.TotalSuccessful++
			if r.ProcessingTimeMs != nil {
				batch.TotalProcessingTimeMs += *r.ProcessingTimeMs
			}
		} else {
			batch.TotalFailed++
		}
	}
	return batch, nil
}

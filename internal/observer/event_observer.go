package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-vision-tools/pkg/models"
)

// OperationEvent describes one vision operation lifecycle transition.
type OperationEvent struct {
	EventType      EventType        `json:"event_type"`
	Timestamp      time.Time        `json:"timestamp"`
	Operation      models.Operation `json:"operation"`
	ImageReference string           `json:"image_reference"`
	ProcessingTime time.Duration    `json:"processing_time"`
	Success        bool             `json:"success"`
	ErrorCode      models.ErrorCode `json:"error_code,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
}

// EventType represents the type of operation event.
type EventType string

const (
	// OperationStarted when an operation begins
	OperationStarted EventType = "operation_started"
	// OperationCompleted when an operation finishes successfully
	OperationCompleted EventType = "operation_completed"
	// OperationFailed when an operation fails
	OperationFailed EventType = "operation_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event OperationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event OperationEvent)
}

// LoggingObserver logs operation events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles operation events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event OperationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"operation":       event.Operation,
		"image_reference": event.ImageReference,
	}
	if event.ProcessingTime > 0 {
		fields["processing_time"] = event.ProcessingTime
	}
	if event.ErrorCode != "" {
		fields["error_code"] = event.ErrorCode
		fields["error"] = event.ErrorMessage
	}

	switch event.EventType {
	case OperationStarted:
		o.logger.WithFields(fields).Debug("Vision operation started")
	case OperationCompleted:
		o.logger.WithFields(fields).Info("Vision operation completed")
	case OperationFailed:
		o.logger.WithFields(fields).Error("Vision operation failed")
	default:
		o.logger.WithFields(fields).Info("Vision operation event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from operation events
type MetricsObserver struct {
	mu                   sync.RWMutex
	totalOperations      int64
	successfulOperations int64
	failedOperations     int64
	totalProcessingTime  time.Duration
	perOperation         map[models.Operation]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		perOperation: make(map[models.Operation]int64),
	}
}

// OnEvent handles operation events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event OperationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case OperationStarted:
		o.totalOperations++
		o.perOperation[event.Operation]++
	case OperationCompleted:
		o.successfulOperations++
		o.totalProcessingTime += event.ProcessingTime
	case OperationFailed:
		o.failedOperations++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of the collected counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulOperations > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulOperations)
	}

	perOperation := make(map[string]int64, len(o.perOperation))
	for op, count := range o.perOperation {
		perOperation[string(op)] = count
	}

	return map[string]interface{}{
		"total_operations":         o.totalOperations,
		"successful_operations":    o.successfulOperations,
		"failed_operations":        o.failedOperations,
		"operations_by_type":       perOperation,
		"total_processing_time_ms": o.totalProcessingTime.Milliseconds(),
		"avg_processing_time_ms":   avgProcessingTime.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Observers run inline;
// a panicking observer is contained, not propagated.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event OperationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

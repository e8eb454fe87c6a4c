package observer

import (
	"context"
	"testing"
	"time"

	"go-vision-tools/pkg/models"
)

func TestMetricsObserver(t *testing.T) {
	metrics := NewMetricsObserver()
	ctx := context.Background()

	metrics.OnEvent(ctx, OperationEvent{EventType: OperationStarted, Operation: models.OperationCaption})
	metrics.OnEvent(ctx, OperationEvent{EventType: OperationCompleted, Operation: models.OperationCaption, ProcessingTime: 200 * time.Millisecond})
	metrics.OnEvent(ctx, OperationEvent{EventType: OperationStarted, Operation: models.OperationDetect})
	metrics.OnEvent(ctx, OperationEvent{EventType: OperationFailed, Operation: models.OperationDetect})

	stats := metrics.GetMetrics()
	if stats["total_operations"] != int64(2) {
		t.Errorf("Expected 2 total operations, got %v", stats["total_operations"])
	}
	if stats["successful_operations"] != int64(1) {
		t.Errorf("Expected 1 successful operation, got %v", stats["successful_operations"])
	}
	if stats["failed_operations"] != int64(1) {
		t.Errorf("Expected 1 failed operation, got %v", stats["failed_operations"])
	}
	if stats["avg_processing_time_ms"] != int64(200) {
		t.Errorf("Expected 200ms average, got %v", stats["avg_processing_time_ms"])
	}

	perOp := stats["operations_by_type"].(map[string]int64)
	if perOp["caption"] != 1 || perOp["detect"] != 1 {
		t.Errorf("Unexpected per-operation counts: %v", perOp)
	}
}

type recordingObserver struct {
	name   string
	events []OperationEvent
}

func (o *recordingObserver) OnEvent(_ context.Context, event OperationEvent) {
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

func TestEventPublisher_NotifyAll(t *testing.T) {
	publisher := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	publisher.Subscribe(a)
	publisher.Subscribe(b)

	publisher.NotifyObservers(context.Background(), OperationEvent{
		EventType: OperationCompleted,
		Operation: models.OperationQuery,
	})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("Expected both observers notified, got %d and %d", len(a.events), len(b.events))
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	publisher.Subscribe(a)
	publisher.Unsubscribe(a)

	publisher.NotifyObservers(context.Background(), OperationEvent{EventType: OperationStarted})
	if len(a.events) != 0 {
		t.Errorf("Expected no events after unsubscribe, got %d", len(a.events))
	}
}

func TestEventPublisher_ContainsPanics(t *testing.T) {
	publisher := NewEventPublisher()
	publisher.Subscribe(panickingObserver{})
	after := &recordingObserver{name: "after"}
	publisher.Subscribe(after)

	publisher.NotifyObservers(context.Background(), OperationEvent{EventType: OperationStarted})
	if len(after.events) != 1 {
		t.Error("Expected later observers to still be notified after a panic")
	}
}

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, OperationEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                 { return "panicking" }

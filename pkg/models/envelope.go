package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorCode is the closed set of failure kinds reported to callers.
type ErrorCode string

const (
	ErrorCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrorCodeModelLoad       ErrorCode = "MODEL_LOAD_ERROR"
	ErrorCodeImageProcessing ErrorCode = "IMAGE_PROCESSING_ERROR"
)

// ErrorInfo carries a stable error code and a human-readable message.
type ErrorInfo struct {
	Code    ErrorCode `json:"error_code"`
	Message string    `json:"error_message"`
}

// OperationRequest is a single vision invocation. It is built once per call
// and never mutated.
type OperationRequest struct {
	ImageReference string
	Operation      Operation
	Parameters     map[string]any
}

// OperationResult is the uniform envelope returned for every invocation.
// Exactly one of Payload or Error is set. ProcessingTimeMs is present only
// when the capability measured the call.
type OperationResult struct {
	Success          bool
	Payload          OperationPayload
	Error            *ErrorInfo
	ProcessingTimeMs *float64
	Metadata         map[string]any
}

// NewSuccessResult wraps a payload in a success envelope. A zero elapsed
// duration means the capability did not measure the call.
func NewSuccessResult(payload OperationPayload, elapsed time.Duration, metadata map[string]any) OperationResult {
	result := OperationResult{
		Success:  true,
		Payload:  payload,
		Metadata: metadata,
	}
	if elapsed > 0 {
		ms := float64(elapsed.Microseconds()) / 1000.0
		result.ProcessingTimeMs = &ms
	}
	return result
}

// NewFailureResult wraps classified error information in a failure envelope.
func NewFailureResult(info ErrorInfo, metadata map[string]any) OperationResult {
	return OperationResult{
		Success:  false,
		Error:    &info,
		Metadata: metadata,
	}
}

// MarshalJSON flattens the payload fields into the envelope so callers see a
// single structured object per invocation, success or failure.
func (r OperationResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8)
	out["success"] = r.Success

	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			out[k] = v
		}
	}

	if r.Error != nil {
		out["error_code"] = r.Error.Code
		out["error_message"] = r.Error.Message
	}
	if r.ProcessingTimeMs != nil {
		out["processing_time_ms"] = *r.ProcessingTimeMs
	}
	if len(r.Metadata) > 0 {
		out["metadata"] = r.Metadata
	}

	return json.Marshal(out)
}

// BatchRequest is a multi-image invocation sharing one operation and one
// parameter bag across all images.
type BatchRequest struct {
	ImageReferences []string
	Operation       Operation
	Parameters      map[string]any
}

// BatchResult aggregates per-item envelopes in input order.
// TotalProcessed always equals len(Results); TotalSuccessful+TotalFailed
// equals TotalProcessed; TotalProcessingTimeMs sums only the per-item times
// that were reported.
type BatchResult struct {
	Results               []OperationResult `json:"results"`
	TotalProcessed        int               `json:"total_processed"`
	TotalSuccessful       int               `json:"total_successful"`
	TotalFailed           int               `json:"total_failed"`
	TotalProcessingTimeMs float64           `json:"total_processing_time_ms"`
	Operation             Operation         `json:"operation"`
	Parameters            map[string]any    `json:"parameters"`
}

package models

import "fmt"

// Operation identifies one of the supported vision analysis kinds.
// The set is closed; the router switches exhaustively over it.
type Operation string

const (
	OperationCaption Operation = "caption"
	OperationQuery   Operation = "query"
	OperationDetect  Operation = "detect"
	OperationPoint   Operation = "point"
)

// Operations lists every supported operation in a stable order.
func Operations() []Operation {
	return []Operation{OperationCaption, OperationQuery, OperationDetect, OperationPoint}
}

// ParseOperation converts a raw tag into an Operation.
func ParseOperation(raw string) (Operation, error) {
	switch Operation(raw) {
	case OperationCaption, OperationQuery, OperationDetect, OperationPoint:
		return Operation(raw), nil
	default:
		return "", fmt.Errorf("operation must be 'caption', 'query', 'detect', or 'point'")
	}
}

// CaptionLength selects how verbose a generated caption should be.
type CaptionLength string

const (
	CaptionShort    CaptionLength = "short"
	CaptionNormal   CaptionLength = "normal"
	CaptionDetailed CaptionLength = "detailed"
)

// ParseCaptionLength converts a raw length value into a CaptionLength.
func ParseCaptionLength(raw string) (CaptionLength, error) {
	switch CaptionLength(raw) {
	case CaptionShort, CaptionNormal, CaptionDetailed:
		return CaptionLength(raw), nil
	default:
		return "", fmt.Errorf("length must be 'short', 'normal', or 'detailed'")
	}
}

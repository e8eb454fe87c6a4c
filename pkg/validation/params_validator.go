package validation

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	apperrors "go-vision-tools/internal/errors"
	"go-vision-tools/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CaptionParams are the validated parameters for a caption operation.
type CaptionParams struct {
	Length models.CaptionLength
	Stream bool
}

// QueryParams are the validated parameters for a query operation.
type QueryParams struct {
	Question string
}

// LocateParams are the validated parameters for detect and point operations.
type LocateParams struct {
	ObjectName string
}

// ValidateImageReference checks that an image reference is non-empty after
// trimming whitespace. Every operation requires one.
func ValidateImageReference(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError("image_reference cannot be empty", nil)
	}
	return nil
}

// CaptionParamsFrom extracts caption parameters from a raw parameter bag.
// Length defaults to normal and stream defaults to false.
func CaptionParamsFrom(params map[string]any) (CaptionParams, error) {
	out := CaptionParams{Length: models.CaptionNormal}

	if raw, ok := params["length"]; ok {
		str, ok := raw.(string)
		if !ok {
			return CaptionParams{}, apperrors.NewValidationError("length must be 'short', 'normal', or 'detailed'", nil)
		}
		length, err := models.ParseCaptionLength(str)
		if err != nil {
			return CaptionParams{}, apperrors.NewValidationError(err.Error(), nil)
		}
		out.Length = length
	}

	if raw, ok := params["stream"]; ok {
		stream, ok := raw.(bool)
		if !ok {
			return CaptionParams{}, apperrors.NewValidationError("stream must be a boolean", nil)
		}
		out.Stream = stream
	}

	return out, nil
}

// QueryParamsFrom extracts query parameters from a raw parameter bag.
func QueryParamsFrom(params map[string]any) (QueryParams, error) {
	raw, ok := params["question"]
	if !ok || raw == nil {
		return QueryParams{}, apperrors.NewValidationError("question parameter is required for query operation", nil)
	}
	question, ok := raw.(string)
	if !ok || strings.TrimSpace(question) == "" {
		return QueryParams{}, apperrors.NewValidationError("question cannot be empty", nil)
	}
	return QueryParams{Question: question}, nil
}

// LocateParamsFrom extracts detect/point parameters from a raw parameter bag.
func LocateParamsFrom(params map[string]any, op models.Operation) (LocateParams, error) {
	raw, ok := params["object_name"]
	if !ok || raw == nil {
		return LocateParams{}, apperrors.NewValidationError(
			fmt.Sprintf("object_name parameter is required for %s operation", op), nil)
	}
	objectName, ok := raw.(string)
	if !ok || strings.TrimSpace(objectName) == "" {
		return LocateParams{}, apperrors.NewValidationError("object_name cannot be empty", nil)
	}
	return LocateParams{ObjectName: objectName}, nil
}

// ParseOperation validates the operation tag of the multi-operation entry
// point before any operation-specific parameters are inspected.
func ParseOperation(raw string) (models.Operation, error) {
	op, err := models.ParseOperation(raw)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}
	return op, nil
}

// ParseParameters parses a free-form parameters blob into a JSON object.
// A blank blob yields an empty object.
func ParseParameters(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	params := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, apperrors.NewValidationError("parameters must be valid JSON", err)
	}
	return params, nil
}

// ParseImageReferences parses and bounds-checks the batch image list.
// Violations fail the whole batch before any image is processed.
func ParseImageReferences(raw string, maxBatchSize int) ([]string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, apperrors.NewValidationError("image_references must be a valid JSON array", err)
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, apperrors.NewValidationError("image_references must be a JSON array", nil)
	}

	refs := make([]string, 0, len(items))
	for _, item := range items {
		ref, ok := item.(string)
		if !ok {
			return nil, apperrors.NewValidationError("image_references must be an array of strings", nil)
		}
		refs = append(refs, ref)
	}

	return refs, ValidateBatchSize(refs, maxBatchSize)
}

// ValidateBatchSize enforces the batch size invariant 1..maxBatchSize.
func ValidateBatchSize(refs []string, maxBatchSize int) error {
	if len(refs) == 0 {
		return apperrors.NewValidationError("image_references cannot be empty", nil)
	}
	if len(refs) > maxBatchSize {
		return apperrors.NewValidationError(
			fmt.Sprintf("Cannot process more than %d images at once", maxBatchSize), nil)
	}
	return nil
}

package validation

import (
	"strings"
	"testing"

	apperrors "go-vision-tools/internal/errors"
	"go-vision-tools/pkg/models"
)

func TestValidateImageReference_Valid(t *testing.T) {
	refs := []string{
		"/tmp/photo.jpg",
		"https://example.com/image.png",
		"relative/path.webp",
	}
	for _, ref := range refs {
		if err := ValidateImageReference(ref); err != nil {
			t.Errorf("Expected reference %q to pass validation, got error: %v", ref, err)
		}
	}
}

func TestValidateImageReference_Empty(t *testing.T) {
	for _, ref := range []string{"", "   ", "\t\n"} {
		err := ValidateImageReference(ref)
		if err == nil {
			t.Errorf("Expected error for reference %q", ref)
			continue
		}
		if !apperrors.IsCode(err, models.ErrorCodeInvalidRequest) {
			t.Errorf("Expected INVALID_REQUEST for reference %q, got %v", ref, err)
		}
	}
}

func TestCaptionParamsFrom_Defaults(t *testing.T) {
	params, err := CaptionParamsFrom(map[string]any{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Length != models.CaptionNormal {
		t.Errorf("Expected default length normal, got %s", params.Length)
	}
	if params.Stream {
		t.Error("Expected stream to default to false")
	}
}

func TestCaptionParamsFrom_ExplicitValues(t *testing.T) {
	params, err := CaptionParamsFrom(map[string]any{"length": "detailed", "stream": true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Length != models.CaptionDetailed {
		t.Errorf("Expected detailed length, got %s", params.Length)
	}
	if !params.Stream {
		t.Error("Expected stream to be true")
	}
}

func TestCaptionParamsFrom_InvalidLength(t *testing.T) {
	cases := []map[string]any{
		{"length": "verbose"},
		{"length": 42},
	}
	for _, params := range cases {
		_, err := CaptionParamsFrom(params)
		if err == nil {
			t.Errorf("Expected error for params %v", params)
			continue
		}
		if !strings.Contains(err.Error(), "length must be 'short', 'normal', or 'detailed'") {
			t.Errorf("Unexpected error message: %v", err)
		}
	}
}

func TestCaptionParamsFrom_InvalidStream(t *testing.T) {
	_, err := CaptionParamsFrom(map[string]any{"stream": "yes"})
	if err == nil {
		t.Fatal("Expected error for non-boolean stream")
	}
	if !strings.Contains(err.Error(), "stream must be a boolean") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestQueryParamsFrom(t *testing.T) {
	params, err := QueryParamsFrom(map[string]any{"question": "What color is the car?"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Question != "What color is the car?" {
		t.Errorf("Unexpected question: %s", params.Question)
	}
}

func TestQueryParamsFrom_Missing(t *testing.T) {
	_, err := QueryParamsFrom(map[string]any{})
	if err == nil {
		t.Fatal("Expected error for missing question")
	}
	if !strings.Contains(err.Error(), "question parameter is required for query operation") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestQueryParamsFrom_Empty(t *testing.T) {
	for _, q := range []any{"", "   ", 7} {
		_, err := QueryParamsFrom(map[string]any{"question": q})
		if err == nil {
			t.Errorf("Expected error for question %v", q)
			continue
		}
		if !strings.Contains(err.Error(), "question cannot be empty") {
			t.Errorf("Unexpected error message: %v", err)
		}
	}
}

func TestLocateParamsFrom(t *testing.T) {
	params, err := LocateParamsFrom(map[string]any{"object_name": "face"}, models.OperationDetect)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.ObjectName != "face" {
		t.Errorf("Unexpected object name: %s", params.ObjectName)
	}
}

func TestLocateParamsFrom_MissingNamesOperation(t *testing.T) {
	_, err := LocateParamsFrom(map[string]any{}, models.OperationPoint)
	if err == nil {
		t.Fatal("Expected error for missing object_name")
	}
	if !strings.Contains(err.Error(), "object_name parameter is required for point operation") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestLocateParamsFrom_Empty(t *testing.T) {
	_, err := LocateParamsFrom(map[string]any{"object_name": "  "}, models.OperationDetect)
	if err == nil {
		t.Fatal("Expected error for blank object_name")
	}
	if !strings.Contains(err.Error(), "object_name cannot be empty") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestParseOperation_AllSupported(t *testing.T) {
	for _, op := range models.Operations() {
		parsed, err := ParseOperation(string(op))
		if err != nil {
			t.Errorf("Expected operation %s to parse, got error: %v", op, err)
		}
		if parsed != op {
			t.Errorf("Expected %s, got %s", op, parsed)
		}
	}
}

func TestParseOperation_Unknown(t *testing.T) {
	for _, raw := range []string{"", "segment", "CAPTION"} {
		_, err := ParseOperation(raw)
		if err == nil {
			t.Errorf("Expected error for operation %q", raw)
			continue
		}
		if !strings.Contains(err.Error(), "operation must be 'caption', 'query', 'detect', or 'point'") {
			t.Errorf("Unexpected error message: %v", err)
		}
		if !apperrors.IsCode(err, models.ErrorCodeInvalidRequest) {
			t.Errorf("Expected INVALID_REQUEST for operation %q", raw)
		}
	}
}

func TestParseParameters_Blank(t *testing.T) {
	for _, raw := range []string{"", "  "} {
		params, err := ParseParameters(raw)
		if err != nil {
			t.Fatalf("Expected no error for blank blob, got %v", err)
		}
		if len(params) != 0 {
			t.Errorf("Expected empty parameters, got %v", params)
		}
	}
}

func TestParseParameters_Valid(t *testing.T) {
	params, err := ParseParameters(`{"length":"short","stream":false}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params["length"] != "short" {
		t.Errorf("Unexpected length: %v", params["length"])
	}
}

func TestParseParameters_Malformed(t *testing.T) {
	for _, raw := range []string{"{", "not json", `["a"]`} {
		_, err := ParseParameters(raw)
		if err == nil {
			t.Errorf("Expected error for blob %q", raw)
			continue
		}
		if !strings.Contains(err.Error(), "parameters must be valid JSON") {
			t.Errorf("Unexpected error message: %v", err)
		}
	}
}

func TestParseImageReferences(t *testing.T) {
	refs, err := ParseImageReferences(`["a.jpg","b.png"]`, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(refs) != 2 || refs[0] != "a.jpg" || refs[1] != "b.png" {
		t.Errorf("Unexpected references: %v", refs)
	}
}

func TestParseImageReferences_Malformed(t *testing.T) {
	_, err := ParseImageReferences("not json", 10)
	if err == nil {
		t.Fatal("Expected error for malformed blob")
	}
	if !strings.Contains(err.Error(), "image_references must be a valid JSON array") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestParseImageReferences_NotArray(t *testing.T) {
	_, err := ParseImageReferences(`{"a":"b"}`, 10)
	if err == nil {
		t.Fatal("Expected error for non-array blob")
	}
	if !strings.Contains(err.Error(), "image_references must be a JSON array") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestParseImageReferences_NonStringElement(t *testing.T) {
	_, err := ParseImageReferences(`["a.jpg", 2]`, 10)
	if err == nil {
		t.Fatal("Expected error for non-string element")
	}
	if !strings.Contains(err.Error(), "image_references must be an array of strings") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestValidateBatchSize_Empty(t *testing.T) {
	err := ValidateBatchSize(nil, 10)
	if err == nil {
		t.Fatal("Expected error for empty batch")
	}
	if !strings.Contains(err.Error(), "image_references cannot be empty") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestValidateBatchSize_Bounds(t *testing.T) {
	atLimit := make([]string, 10)
	for i := range atLimit {
		atLimit[i] = "img.jpg"
	}
	if err := ValidateBatchSize(atLimit, 10); err != nil {
		t.Errorf("Expected batch of 10 to pass, got error: %v", err)
	}

	overLimit := append(atLimit, "extra.jpg")
	err := ValidateBatchSize(overLimit, 10)
	if err == nil {
		t.Fatal("Expected error for batch of 11")
	}
	if !strings.Contains(err.Error(), "Cannot process more than 10 images at once") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

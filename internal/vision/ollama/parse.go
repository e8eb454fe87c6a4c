package ollama

import (
	"fmt"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"go-vision-tools/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// parseDetectResponse parses the model's detection JSON into normalized
// detected objects.
func parseDetectResponse(raw string) ([]models.DetectedObject, error) {
	cleaned := sanitizeModelJSON(raw)

	var parsed struct {
		Objects []models.DetectedObject `json:"objects"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("non-JSON detection response: %w", err)
	}

	objects := make([]models.DetectedObject, 0, len(parsed.Objects))
	for _, obj := range parsed.Objects {
		obj.Confidence = clamp01(obj.Confidence)
		obj.BoundingBox = models.BoundingBox{
			X:      clamp01(obj.BoundingBox.X),
			Y:      clamp01(obj.BoundingBox.Y),
			Width:  clamp01(obj.BoundingBox.Width),
			Height: clamp01(obj.BoundingBox.Height),
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// parsePointResponse parses the model's pointing JSON into normalized
// pointed objects.
func parsePointResponse(raw string) ([]models.PointedObject, error) {
	cleaned := sanitizeModelJSON(raw)

	var parsed struct {
		Points []models.PointedObject `json:"points"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("non-JSON pointing response: %w", err)
	}

	points := make([]models.PointedObject, 0, len(parsed.Points))
	for _, pt := range parsed.Points {
		pt.Confidence = clamp01(pt.Confidence)
		pt.Point = models.Point{X: clamp01(pt.Point.X), Y: clamp01(pt.Point.Y)}
		points = append(points, pt)
	}
	return points, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON strips code fences, comments, and trailing commas that
// vision models habitually wrap around their JSON output, and keeps only the
// outermost object.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

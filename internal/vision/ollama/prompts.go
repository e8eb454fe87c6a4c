package ollama

import (
	"fmt"

	"go-vision-tools/pkg/models"
)

func captionPrompt(length models.CaptionLength) string {
	switch length {
	case models.CaptionShort:
		return "Describe this image in one short sentence."
	case models.CaptionDetailed:
		return "Describe this image in detail. Cover every visible subject, the setting, colors, and any text."
	default:
		return "Describe this image."
	}
}

func queryPrompt(question string) string {
	return question
}

func detectPrompt(objectName string) string {
	return fmt.Sprintf(`You are an object detector. Find every instance of "%s" in this image.

Return JSON only:
{
  "objects": [
    {"name": "string", "confidence": 0.0, "bounding_box": {"x": 0.0, "y": 0.0, "width": 0.0, "height": 0.0}}
  ]
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels); x,y is the top-left corner.
- Confidence is in [0,1].
- Include one entry per instance found; return {"objects": []} if none are present.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`, objectName)
}

func pointPrompt(objectName string) string {
	return fmt.Sprintf(`You are an object locator. Point at every instance of "%s" in this image.

Return JSON only:
{
  "points": [
    {"name": "string", "confidence": 0.0, "point": {"x": 0.0, "y": 0.0}}
  ]
}

HARD RULES
- Coordinates are normalized to [0,1] (NOT pixels) and mark the center of the object.
- Confidence is in [0,1].
- Include one entry per instance found; return {"points": []} if none are present.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`, objectName)
}

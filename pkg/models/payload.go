package models

// OperationPayload is the success payload of a vision operation. Exactly one
// implementation exists per Operation; the envelope serializer flattens the
// payload fields into the result object.
type OperationPayload interface {
	Operation() Operation
}

// BoundingBox is a normalized rectangle locating a detected object.
// All coordinates are in [0,1] relative to the image dimensions.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectedObject is a single detection result.
type DetectedObject struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// Point is a normalized coordinate locating a referenced object.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointedObject is a single localization result.
type PointedObject struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Point      Point   `json:"point"`
}

// CaptionPayload is the result of a caption operation.
type CaptionPayload struct {
	Caption string        `json:"caption"`
	Length  CaptionLength `json:"length"`
}

func (CaptionPayload) Operation() Operation { return OperationCaption }

// QueryPayload is the result of a visual question answering operation.
type QueryPayload struct {
	Answer   string `json:"answer"`
	Question string `json:"question"`
}

func (QueryPayload) Operation() Operation { return OperationQuery }

// DetectPayload is the result of an object detection operation.
type DetectPayload struct {
	Objects    []DetectedObject `json:"objects"`
	ObjectName string           `json:"object_name"`
	TotalFound int              `json:"total_found"`
}

func (DetectPayload) Operation() Operation { return OperationDetect }

// PointPayload is the result of an object localization operation.
type PointPayload struct {
	Points     []PointedObject `json:"points"`
	ObjectName string          `json:"object_name"`
	TotalFound int             `json:"total_found"`
}

func (PointPayload) Operation() Operation { return OperationPoint }

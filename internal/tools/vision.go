package tools

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	apperrors "go-vision-tools/internal/errors"
	"go-vision-tools/internal/service"
	"go-vision-tools/pkg/models"
	"go-vision-tools/pkg/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RegisterVisionTools registers the six vision analysis tools over the given
// service.
func RegisterVisionTools(reg *Registry, svc service.VisionService, maxBatchSize int) {
	reg.Register(Tool{
		Name:        "caption_image",
		Description: "Generate a caption for an image (length: short, normal, or detailed)",
		Handler:     captionTool(svc),
	})
	reg.Register(Tool{
		Name:        "query_image",
		Description: "Ask a question about an image (visual question answering)",
		Handler:     queryTool(svc),
	})
	reg.Register(Tool{
		Name:        "detect_objects",
		Description: "Detect specific objects in an image, with bounding boxes",
		Handler:     locateTool(svc, models.OperationDetect),
	})
	reg.Register(Tool{
		Name:        "point_objects",
		Description: "Point to specific objects in an image (normalized coordinates)",
		Handler:     locateTool(svc, models.OperationPoint),
	})
	reg.Register(Tool{
		Name:        "analyze_image",
		Description: "Multi-purpose image analysis (operation: caption, query, detect, or point)",
		Handler:     analyzeTool(svc),
	})
	reg.Register(Tool{
		Name:        "batch_analyze_images",
		Description: fmt.Sprintf("Analyze up to %d images in one batch under a shared operation", maxBatchSize),
		Handler:     batchTool(svc, maxBatchSize),
	})
}

func captionTool(svc service.VisionService) Handler {
	return func(ctx context.Context, args Arguments) string {
		params := map[string]any{}
		if v, ok := args["length"]; ok {
			params["length"] = v
		}
		if v, ok := args["stream"]; ok {
			params["stream"] = v
		}
		result := svc.Execute(ctx, models.OperationRequest{
			ImageReference: args.String("image_reference"),
			Operation:      models.OperationCaption,
			Parameters:     params,
		})
		return marshalEnvelope(result)
	}
}

func queryTool(svc service.VisionService) Handler {
	return func(ctx context.Context, args Arguments) string {
		params := map[string]any{}
		if v, ok := args["question"]; ok {
			params["question"] = v
		}
		result := svc.Execute(ctx, models.OperationRequest{
			ImageReference: args.String("image_reference"),
			Operation:      models.OperationQuery,
			Parameters:     params,
		})
		return marshalEnvelope(result)
	}
}

func locateTool(svc service.VisionService, op models.Operation) Handler {
	return func(ctx context.Context, args Arguments) string {
		params := map[string]any{}
		if v, ok := args["object_name"]; ok {
			params["object_name"] = v
		}
		result := svc.Execute(ctx, models.OperationRequest{
			ImageReference: args.String("image_reference"),
			Operation:      op,
			Parameters:     params,
		})
		return marshalEnvelope(result)
	}
}

func analyzeTool(svc service.VisionService) Handler {
	return func(ctx context.Context, args Arguments) string {
		imageRef := args.String("image_reference")
		opTag := args.String("operation")

		if err := validation.ValidateImageReference(imageRef); err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}
		op, err := validation.ParseOperation(opTag)
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}
		params, err := parametersFrom(args)
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}

		result := svc.Execute(ctx, models.OperationRequest{
			ImageReference: imageRef,
			Operation:      op,
			Parameters:     params,
		})
		return marshalEnvelope(result)
	}
}

func batchTool(svc service.VisionService, maxBatchSize int) Handler {
	return func(ctx context.Context, args Arguments) string {
		opTag := args.String("operation")

		refs, err := imageReferencesFrom(args, maxBatchSize)
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}
		params, err := parametersFrom(args)
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}
		op, err := validation.ParseOperation(opTag)
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}

		batch, err := svc.ExecuteBatch(ctx, models.BatchRequest{
			ImageReferences: refs,
			Operation:       op,
			Parameters:      params,
		})
		if err != nil {
			return requestFailure(err, map[string]any{"operation": opTag})
		}
		return marshal(batch)
	}
}

// parametersFrom accepts the operation parameter blob either as a JSON
// string or as an already-parsed object.
func parametersFrom(args Arguments) (map[string]any, error) {
	switch v := args["parameters"].(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		return validation.ParseParameters(v)
	default:
		return nil, apperrors.NewValidationError("parameters must be valid JSON", nil)
	}
}

// imageReferencesFrom accepts the batch image list either as a JSON array
// string or as an already-parsed array.
func imageReferencesFrom(args Arguments, maxBatchSize int) ([]string, error) {
	switch v := args["image_references"].(type) {
	case string:
		return validation.ParseImageReferences(v, maxBatchSize)
	case []any:
		refs := make([]string, 0, len(v))
		for _, item := range v {
			ref, ok := item.(string)
			if !ok {
				return nil, apperrors.NewValidationError("image_references must be an array of strings", nil)
			}
			refs = append(refs, ref)
		}
		return refs, validation.ValidateBatchSize(refs, maxBatchSize)
	default:
		return nil, apperrors.NewValidationError("image_references must be a valid JSON array", nil)
	}
}

// requestFailure builds the request-level failure envelope used when an
// entry point rejects an invocation before any operation runs.
func requestFailure(err error, extra map[string]any) string {
	info := apperrors.Classify(err)
	out := map[string]any{
		"success":       false,
		"error_code":    info.Code,
		"error_message": info.Message,
	}
	for k, v := range extra {
		out[k] = v
	}
	return marshal(out)
}

func marshalEnvelope(result models.OperationResult) string {
	return marshal(result)
}

func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error_code":"%s","error_message":"failed to encode result"}`,
			models.ErrorCodeInvalidRequest)
	}
	return string(data)
}

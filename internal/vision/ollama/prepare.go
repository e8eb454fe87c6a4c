package ollama

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "go-vision-tools/internal/errors"
)

// prepareImage fetches, decodes, and bounds the referenced image, returning
// JPEG bytes ready for the model. Oversized images are downscaled to keep
// inference payloads small.
func (c *Client) prepareImage(ctx context.Context, ref string) ([]byte, error) {
	data, err := c.images.Fetch(ctx, ref)
	if err != nil {
		return nil, apperrors.NewImageProcessingError("failed to fetch image: "+err.Error(), err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// The registered webp decoder rejects some lossless variants that
		// chai2010/webp handles.
		wimg, werr := webp.Decode(bytes.NewReader(data))
		if werr != nil {
			return nil, apperrors.NewImageProcessingError("failed to decode image: "+err.Error(), err)
		}
		img = wimg
	}

	if c.maxDimension > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > c.maxDimension || bounds.Dy() > c.maxDimension {
			img = imaging.Fit(img, c.maxDimension, c.maxDimension, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, apperrors.NewImageProcessingError("failed to encode image for inference", err)
	}
	return buf.Bytes(), nil
}

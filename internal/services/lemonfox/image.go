package lemonfox

import (
	"context"
	"encoding/json"
	"strings"

	"papercast/internal/services"
)

const imagesPath = "/images/generations"

// ImageRequest describes an image generation call.
type ImageRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// ImageDatum is one generated image, delivered either as a URL or inline
// base64 depending on the requested response format.
type ImageDatum struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageResponse carries the generated images.
type ImageResponse struct {
	Created int64        `json:"created"`
	Data    []ImageDatum `json:"data"`
}

// GenerateImage renders the prompt and returns the generation payload.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "lemonfox", "generate image", "empty prompt", nil)
	}
	if req.N <= 0 {
		req.N = 1
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "generate image", "encode request", err)
	}
	body, _, err := c.postWithRetry(ctx, "generate image", imagesPath, "application/json", payload)
	if err != nil {
		return nil, err
	}

	var parsed ImageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "generate image", "decode response", err)
	}
	if len(parsed.Data) == 0 {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "generate image", "response contained no images", nil)
	}
	return &parsed, nil
}

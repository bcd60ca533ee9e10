package lemonfox

import (
	"context"
	"encoding/json"
	"strings"

	"papercast/internal/services"
)

const speechPath = "/audio/speech"

// SpeechRequest describes a text to speech call. ResponseFormat defaults to
// wav because the stitcher needs raw PCM it can decode and splice.
type SpeechRequest struct {
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Language       string  `json:"language,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
	WordTimestamps bool    `json:"word_timestamps,omitempty"`
}

// GenerateSpeech synthesizes the input text and returns the encoded audio
// bytes exactly as the API produced them.
func (c *Client) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, services.Wrap(services.ErrValidation, "lemonfox", "generate speech", "empty input text", nil)
	}
	if strings.TrimSpace(req.Voice) == "" {
		return nil, services.Wrap(services.ErrValidation, "lemonfox", "generate speech", "no voice selected", nil)
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = "wav"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "generate speech", "encode request", err)
	}
	body, _, err := c.postWithRetry(ctx, "generate speech", speechPath, "application/json", payload)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "generate speech", "empty audio response", nil)
	}
	return body, nil
}

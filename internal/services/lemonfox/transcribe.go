package lemonfox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"papercast/internal/services"
)

const transcriptionsPath = "/audio/transcriptions"

// TranscriptionRequest describes an audio transcription call. Either FilePath
// or Audio plus Filename must be provided.
type TranscriptionRequest struct {
	FilePath string
	Audio    io.Reader
	Filename string

	Language       string
	Prompt         string
	ResponseFormat string
	SpeakerLabels  bool
	Translate      bool
	MinSpeakers    int
	MaxSpeakers    int
}

// TranscriptionSegment is a timed slice of the transcript.
type TranscriptionSegment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// TranscriptionResponse carries the transcript and, when requested, its
// segment timeline.
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// Transcribe uploads the audio as multipart form data and returns the parsed
// transcript. The upload is buffered so transient failures can be retried.
func (c *Client) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	audio, filename, err := openTranscriptionSource(req)
	if err != nil {
		return nil, err
	}
	if closer, ok := audio.(io.Closer); ok {
		defer closer.Close()
	}

	payload, contentType, err := buildTranscriptionForm(audio, filename, req)
	if err != nil {
		return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "transcribe", "build form", err)
	}

	body, _, err := c.postWithRetry(ctx, "transcribe", transcriptionsPath, contentType, payload)
	if err != nil {
		return nil, err
	}

	var parsed TranscriptionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Plain text response formats come back unwrapped.
		text := strings.TrimSpace(string(body))
		if text == "" {
			return nil, services.Wrap(services.ErrAPIRequest, "lemonfox", "transcribe", "decode response", err)
		}
		return &TranscriptionResponse{Text: text}, nil
	}
	return &parsed, nil
}

func openTranscriptionSource(req TranscriptionRequest) (io.Reader, string, error) {
	if req.Audio != nil {
		filename := strings.TrimSpace(req.Filename)
		if filename == "" {
			filename = "audio.wav"
		}
		return req.Audio, filename, nil
	}
	path := strings.TrimSpace(req.FilePath)
	if path == "" {
		return nil, "", services.Wrap(services.ErrValidation, "lemonfox", "transcribe", "no audio source provided", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "lemonfox", "transcribe", fmt.Sprintf("open %s", path), err)
	}
	return file, filepath.Base(path), nil
}

func buildTranscriptionForm(audio io.Reader, filename string, req TranscriptionRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"language":        strings.TrimSpace(req.Language),
		"prompt":          strings.TrimSpace(req.Prompt),
		"response_format": strings.TrimSpace(req.ResponseFormat),
	}
	if req.SpeakerLabels {
		fields["speaker_labels"] = "true"
	}
	if req.Translate {
		fields["translate"] = "true"
	}
	if req.MinSpeakers > 0 {
		fields["min_speakers"] = strconv.Itoa(req.MinSpeakers)
	}
	if req.MaxSpeakers > 0 {
		fields["max_speakers"] = strconv.Itoa(req.MaxSpeakers)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

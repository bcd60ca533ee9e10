package workflow

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"papercast/internal/analysis"
	"papercast/internal/audio"
	"papercast/internal/config"
	"papercast/internal/logging"
	"papercast/internal/script"
	"papercast/internal/services"
	"papercast/internal/services/lemonfox"
	"papercast/internal/textutil"
)

// APIExecutor dispatches workflow steps to the external chat, speech, and
// image endpoints, writing media artifacts into the staging directory.
type APIExecutor struct {
	cfg      *config.Config
	client   *lemonfox.Client
	stitcher *audio.Stitcher
	logger   *slog.Logger
}

// NewAPIExecutor wires an executor over the API client.
func NewAPIExecutor(cfg *config.Config, client *lemonfox.Client, logger *slog.Logger) *APIExecutor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &APIExecutor{
		cfg:      cfg,
		client:   client,
		stitcher: audio.NewStitcher(speechSynthesizer{client: client}, logger),
		logger:   logging.NewComponentLogger(logger, "executor"),
	}
}

// speechSynthesizer adapts the API client to the stitcher's interface.
type speechSynthesizer struct {
	client *lemonfox.Client
}

func (s speechSynthesizer) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	return s.client.GenerateSpeech(ctx, lemonfox.SpeechRequest{
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "wav",
	})
}

// ExecuteStep dispatches by step type.
func (x *APIExecutor) ExecuteStep(ctx context.Context, step *Step, sc StepContext) (*StepResult, error) {
	switch step.Type {
	case StepChat:
		return x.executeChat(ctx, step, sc)
	case StepTTS:
		return x.executeTTS(ctx, step, sc)
	case StepImage:
		return x.executeImage(ctx, step, sc)
	case StepUserInput:
		// Non-interactive runs complete user-input steps with their prompt
		// so dependents can proceed; interactive surfaces may replace the
		// result via CompleteStep before Run is invoked.
		return &StepResult{Text: step.Prompt}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "executor", "dispatch",
			fmt.Sprintf("unknown step type %q", step.Type), nil)
	}
}

func (x *APIExecutor) executeChat(ctx context.Context, step *Step, sc StepContext) (*StepResult, error) {
	req := lemonfox.ChatRequest{
		Messages: []lemonfox.Message{{Role: "user", Content: buildChatPrompt(step, sc)}},
	}
	if params := step.Params.Chat; params != nil {
		req.MaxTokens = params.MaxTokens
		req.Temperature = params.Temperature
		req.Stream = params.Stream
	}

	var (
		content string
		err     error
	)
	if req.Stream {
		content, err = x.client.ChatCompletionStream(ctx, req, nil)
	} else {
		content, err = x.client.ChatCompletion(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return &StepResult{Text: content}, nil
}

// buildChatPrompt stacks the step prompt, the document text, and completed
// dependency outputs into one user message.
func buildChatPrompt(step *Step, sc StepContext) string {
	var b strings.Builder
	b.WriteString(step.Prompt)
	if text := strings.TrimSpace(sc.DocumentText); text != "" {
		b.WriteString("\n\nDocument content:\n")
		b.WriteString(text)
	}
	for _, title := range sc.Titles {
		output := strings.TrimSpace(sc.DependencyOutputs[title])
		if output == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(title)
		b.WriteString(":\n")
		b.WriteString(output)
	}
	return b.String()
}

func (x *APIExecutor) executeTTS(ctx context.Context, step *Step, sc StepContext) (*StepResult, error) {
	input := ttsInput(step, sc)
	if strings.TrimSpace(input) == "" {
		return nil, services.Wrap(services.ErrValidation, "executor", "tts", "no input text for speech step", nil)
	}

	params := step.Params.TTS
	speed := x.cfg.Podcast.Speed
	voices := x.cfg.Podcast.Voices
	mode := ""
	if params != nil {
		if params.Speed > 0 {
			speed = params.Speed
		}
		if len(params.Voices) > 0 {
			voices = params.Voices
		}
		mode = params.Mode
	}

	var scr script.PodcastScript
	if mode == "podcast" {
		scr = script.ParseWithVoices(input, voices)
		if len(scr.Lines) == 0 {
			// No dialogue markup; narrate the whole text with one voice.
			scr = singleVoiceScript(scr.Title, input, voices)
		}
	} else {
		scr = singleVoiceScript(sc.DocumentTitle, input, voices)
	}

	result, err := x.stitcher.Stitch(ctx, scr, audio.Options{
		Speed:                speed,
		PauseBetweenSpeakers: x.cfg.Podcast.PauseBetweenSpeakers,
	})
	if err != nil {
		return nil, err
	}

	path, err := x.writeArtifact(artifactName(scr.Title, step.ID, "wav"), result.Audio)
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, "executor", "tts", "write audio", err)
	}
	return &StepResult{
		Text:            scr.Title,
		AudioPath:       path,
		DurationSeconds: result.TotalDuration,
	}, nil
}

func ttsInput(step *Step, sc StepContext) string {
	for _, title := range sc.Titles {
		if output := strings.TrimSpace(sc.DependencyOutputs[title]); output != "" {
			return output
		}
	}
	if text := strings.TrimSpace(sc.DocumentText); text != "" {
		return text
	}
	return step.Prompt
}

func singleVoiceScript(title, text string, voices []string) script.PodcastScript {
	if strings.TrimSpace(title) == "" {
		title = script.DefaultTitle
	}
	voice := script.DefaultVoices[0]
	if len(voices) > 0 {
		voice = voices[0]
	}
	return script.PodcastScript{
		Title:    title,
		Speakers: []script.Speaker{{ID: "narrator", Name: "Narrator", Voice: voice}},
		Lines:    []script.DialogueLine{{Speaker: "narrator", Text: text}},
	}
}

func (x *APIExecutor) executeImage(ctx context.Context, step *Step, sc StepContext) (*StepResult, error) {
	content := imageContent(step, sc)
	prompt := buildImagePrompt(step, sc, content)

	size := x.cfg.Image.Size
	if params := step.Params.Image; params != nil && params.Size != "" {
		size = params.Size
	}

	resp, err := x.client.GenerateImage(ctx, lemonfox.ImageRequest{
		Prompt:         prompt,
		Size:           size,
		ResponseFormat: x.cfg.Image.ResponseFormat,
	})
	if err != nil {
		return nil, err
	}

	result := &StepResult{Text: prompt}
	datum := resp.Data[0]
	if datum.URL != "" {
		result.ImageURL = datum.URL
	}
	if datum.B64JSON != "" {
		raw, decodeErr := base64.StdEncoding.DecodeString(datum.B64JSON)
		if decodeErr != nil {
			return nil, services.Wrap(services.ErrAPIRequest, "executor", "image", "decode image payload", decodeErr)
		}
		path, writeErr := x.writeArtifact(artifactName(step.Title, step.ID, "png"), raw)
		if writeErr != nil {
			return nil, services.Wrap(services.ErrAPIRequest, "executor", "image", "write image", writeErr)
		}
		result.ImagePath = path
	}
	return result, nil
}

func imageContent(step *Step, sc StepContext) string {
	var parts []string
	for _, title := range sc.Titles {
		if output := strings.TrimSpace(sc.DependencyOutputs[title]); output != "" {
			parts = append(parts, output)
		}
	}
	if len(parts) == 0 {
		if text := strings.TrimSpace(sc.DocumentText); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, step.Prompt)
	}
	return strings.Join(parts, "\n\n")
}

func buildImagePrompt(step *Step, sc StepContext, content string) string {
	style := ""
	if params := step.Params.Image; params != nil {
		style = params.Style
	}
	switch style {
	case "podcast-cover":
		title := sc.DocumentTitle
		if title == "" {
			title = script.Parse(content).Title
		}
		a := analysis.Analyze(content)
		return analysis.BuildCoverPrompt(content, title, analysis.RecommendedStyle(a), nil)
	case "", "illustration", "infographic", "presentation":
		if style == "" {
			return analysis.BuildPrompt(step.Prompt, content, analysis.RecommendedStyle(analysis.Analyze(content)))
		}
		return analysis.BuildContentImagePrompt(content, style)
	default:
		return analysis.BuildPrompt(step.Prompt, content, analysis.StyleByID(style))
	}
}

func (x *APIExecutor) writeArtifact(name string, data []byte) (string, error) {
	if err := os.MkdirAll(x.cfg.Paths.StagingDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(x.cfg.Paths.StagingDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	x.logger.Info("artifact written",
		logging.String("path", path),
		logging.String("size", textutil.FormatFileSize(int64(len(data)))))
	return path, nil
}

func artifactName(title, stepID, ext string) string {
	base := textutil.SanitizeFileName(title)
	if base == "" {
		base = "output"
	}
	suffix := stepID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s-%s.%s", base, suffix, ext)
}

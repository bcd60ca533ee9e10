package lemonfox

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"papercast/internal/services"
)

const (
	chatCompletionsPath = "/chat/completions"
	streamDonePayload   = "[DONE]"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest describes a chat completion call. Model defaults to the client's
// configured chat model when empty.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatChoice struct {
	Message Message `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type streamDelta struct {
	Content string `json:"content"`
}

type streamChoice struct {
	Delta streamDelta `json:"delta"`
}

type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

// ChatCompletion returns the assistant content for the conversation. When the
// request asks for streaming the response is consumed chunk by chunk and the
// deltas are concatenated; OnDelta, when set, observes each fragment as it
// arrives.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", services.Wrap(services.ErrValidation, "lemonfox", "chat completion", "no messages provided", nil)
	}
	if req.Model == "" {
		req.Model = c.cfg.ChatModel
	}
	if req.Stream {
		return c.chatCompletionStream(ctx, req, nil)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat completion", "encode request", err)
	}
	body, _, err := c.postWithRetry(ctx, "chat completion", chatCompletionsPath, "application/json", payload)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat completion", "decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat completion", "response contained no choices", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

// ChatCompletionStream behaves like ChatCompletion with Stream forced on,
// invoking onDelta for every content fragment before returning the full text.
func (c *Client) ChatCompletionStream(ctx context.Context, req ChatRequest, onDelta func(string)) (string, error) {
	if len(req.Messages) == 0 {
		return "", services.Wrap(services.ErrValidation, "lemonfox", "chat completion", "no messages provided", nil)
	}
	if req.Model == "" {
		req.Model = c.cfg.ChatModel
	}
	req.Stream = true
	return c.chatCompletionStream(ctx, req, onDelta)
}

func (c *Client) chatCompletionStream(ctx context.Context, req ChatRequest, onDelta func(string)) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat stream", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(chatCompletionsPath), bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat stream", "new request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat stream", "http error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat stream",
			fmt.Sprintf("http %d: %s", resp.StatusCode, summarizeSnippet(string(body))), nil)
	}

	var builder strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == streamDonePayload {
			break
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed keepalive chunks instead of aborting the stream.
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			builder.WriteString(choice.Delta.Content)
			if onDelta != nil {
				onDelta(choice.Delta.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", services.Wrap(services.ErrAPIRequest, "lemonfox", "chat stream", "read stream", err)
	}
	return builder.String(), nil
}

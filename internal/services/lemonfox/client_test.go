package lemonfox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"papercast/internal/services"
)

func decodeJSONBody(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var sleeps []time.Duration
	client := NewClient(
		Config{APIKey: "test-key", BaseURL: server.URL, ChatModel: "test-model"},
		WithHTTPClient(server.Client()),
		WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
		WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }),
	)
	return client, &sleeps
}

func TestChatCompletionReturnsContent(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`)
	}))

	content, err := client.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if content != "hello there" {
		t.Fatalf("unexpected content %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestChatCompletionRequiresMessages(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://localhost"})
	_, err := client.ChatCompletion(context.Background(), ChatRequest{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestChatCompletionRetriesRateLimit(t *testing.T) {
	var calls atomic.Int64
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))

	content, err := client.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if content != "ok" {
		t.Fatalf("unexpected content %q", content)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != time.Second {
		t.Fatalf("expected one 1s sleep from Retry-After, got %v", *sleeps)
	}
}

func TestChatCompletionDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))

	_, err := client.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, services.ErrAPIRequest) {
		t.Fatalf("expected ErrAPIRequest, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retry on 400, got %d calls", calls.Load())
	}
}

func TestChatCompletionServerErrorExhaustsRetries(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	_, err := client.ChatCompletion(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, services.ErrAPIRequest) {
		t.Fatalf("expected ErrAPIRequest, got %v", err)
	}
	if calls.Load() != defaultRetryAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultRetryAttempts, calls.Load())
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in message, got %v", err)
	}
}

func TestChatCompletionStreamAccumulatesDeltas(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo \"}}]}\n\n")
		fmt.Fprint(w, ": keepalive comment\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))

	var deltas []string
	content, err := client.ChatCompletionStream(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, func(delta string) { deltas = append(deltas, delta) })
	if err != nil {
		t.Fatalf("ChatCompletionStream: %v", err)
	}
	if content != "Hello world" {
		t.Fatalf("unexpected content %q", content)
	}
	if len(deltas) != 3 {
		t.Fatalf("expected 3 deltas, got %v", deltas)
	}
}

func TestChatCompletionStreamErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := client.ChatCompletionStream(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, nil)
	if !errors.Is(err, services.ErrAPIRequest) {
		t.Fatalf("expected ErrAPIRequest, got %v", err)
	}
}

func TestGenerateSpeechReturnsAudioBytes(t *testing.T) {
	audio := []byte("RIFFfakewavdata")
	var gotFormat string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SpeechRequest
		if err := decodeJSONBody(r, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotFormat = req.ResponseFormat
		w.Write(audio)
	}))

	got, err := client.GenerateSpeech(context.Background(), SpeechRequest{Input: "Hello", Voice: "heart"})
	if err != nil {
		t.Fatalf("GenerateSpeech: %v", err)
	}
	if string(got) != string(audio) {
		t.Fatalf("unexpected audio payload %q", got)
	}
	if gotFormat != "wav" {
		t.Fatalf("expected wav default response format, got %q", gotFormat)
	}
}

func TestGenerateSpeechRejectsEmptyInput(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://localhost"})
	if _, err := client.GenerateSpeech(context.Background(), SpeechRequest{Voice: "heart"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty input, got %v", err)
	}
	if _, err := client.GenerateSpeech(context.Background(), SpeechRequest{Input: "hi"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing voice, got %v", err)
	}
}

func TestGenerateImageParsesResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"created":1700000000,"data":[{"url":"https://img.example/1.png"}]}`)
	}))

	resp, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "podcast cover", Size: "1024x1024"})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].URL != "https://img.example/1.png" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGenerateImageRejectsEmptyPrompt(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://localhost"})
	if _, err := client.GenerateImage(context.Background(), ImageRequest{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTranscribeSendsMultipartForm(t *testing.T) {
	var gotFilename, gotLanguage, gotLabels string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		file.Close()
		gotFilename = header.Filename
		gotLanguage = r.FormValue("language")
		gotLabels = r.FormValue("speaker_labels")
		fmt.Fprint(w, `{"text":"hello world","language":"english","segments":[{"id":0,"start":0,"end":1.5,"text":"hello world","speaker":"speaker_0"}]}`)
	}))

	resp, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:         strings.NewReader("fake audio bytes"),
		Filename:      "episode.wav",
		Language:      "english",
		SpeakerLabels: true,
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "hello world" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if len(resp.Segments) != 1 || resp.Segments[0].Speaker != "speaker_0" {
		t.Fatalf("unexpected segments %+v", resp.Segments)
	}
	if gotFilename != "episode.wav" || gotLanguage != "english" || gotLabels != "true" {
		t.Fatalf("unexpected form values: filename=%q language=%q labels=%q", gotFilename, gotLanguage, gotLabels)
	}
}

func TestTranscribePlainTextResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "just the transcript text")
	}))

	resp, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio: strings.NewReader("fake"),
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "just the transcript text" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestTranscribeRequiresSource(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://localhost"})
	if _, err := client.Transcribe(context.Background(), TranscriptionRequest{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("expected 3s, got %v ok=%v", d, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("expected empty header to be ignored")
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("expected negative value to be ignored")
	}
}

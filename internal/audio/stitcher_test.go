package audio

import (
	"context"
	"errors"
	"math"
	"testing"

	"papercast/internal/script"
	"papercast/internal/services"
)

// fakeSynthesizer returns a fixed-length segment per call, recording the
// requested voices, and can be told to fail at a given call index.
type fakeSynthesizer struct {
	sampleRate     int
	channels       int
	segmentSeconds float64
	failAtCall     int
	calls          int
	voices         []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	f.calls++
	f.voices = append(f.voices, voice)
	if f.failAtCall > 0 && f.calls == f.failAtCall {
		return nil, errors.New("synthesis backend unavailable")
	}
	frames := int(f.segmentSeconds * float64(f.sampleRate))
	return EncodeWAV(&PCM{
		SampleRate: f.sampleRate,
		Channels:   f.channels,
		Samples:    make([]int16, frames*f.channels),
	}), nil
}

func testScript() script.PodcastScript {
	return script.Parse("Host: Hello and welcome\nGuest: Glad to be here\nHost: Let's begin")
}

func TestStitchConcatenatesWithGaps(t *testing.T) {
	synth := &fakeSynthesizer{sampleRate: 8000, channels: 1, segmentSeconds: 1.0}
	stitcher := NewStitcher(synth, nil)

	result, err := stitcher.Stitch(context.Background(), testScript(), Options{
		Speed:                1.0,
		PauseBetweenSpeakers: 0.5,
	})
	if err != nil {
		t.Fatalf("Stitch: %v", err)
	}

	// Three 1s segments plus two 0.5s gaps between them, none after the last.
	if math.Abs(result.TotalDuration-4.0) > 1e-9 {
		t.Fatalf("duration = %f, want 4.0", result.TotalDuration)
	}

	decoded, err := DecodeWAV(result.Audio)
	if err != nil {
		t.Fatalf("stitched output must decode: %v", err)
	}
	if decoded.SampleRate != 8000 || decoded.Channels != 1 {
		t.Fatalf("unexpected output format %d/%d", decoded.SampleRate, decoded.Channels)
	}
	if len(decoded.Samples) != 8000*3+4000*2 {
		t.Fatalf("unexpected sample count %d", len(decoded.Samples))
	}
}

func TestStitchUsesSpeakerVoices(t *testing.T) {
	synth := &fakeSynthesizer{sampleRate: 8000, channels: 1, segmentSeconds: 0.1}
	stitcher := NewStitcher(synth, nil)

	if _, err := stitcher.Stitch(context.Background(), testScript(), Options{}); err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	// Host appears first so it gets the first rotation voice on both lines.
	want := []string{"heart", "bella", "heart"}
	for i, voice := range want {
		if synth.voices[i] != voice {
			t.Fatalf("call %d voice = %q, want %q", i, synth.voices[i], voice)
		}
	}
}

func TestStitchProgressPerLine(t *testing.T) {
	synth := &fakeSynthesizer{sampleRate: 8000, channels: 1, segmentSeconds: 0.1}
	stitcher := NewStitcher(synth, nil)

	var events []Progress
	_, err := stitcher.Stitch(context.Background(), testScript(), Options{
		PauseBetweenSpeakers: 0.5,
		OnProgress:           func(p Progress) { events = append(events, p) },
	})
	if err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected one event per line, got %d", len(events))
	}
	for i, event := range events {
		if event.LineIndex != i+1 || event.TotalLines != 3 {
			t.Fatalf("unexpected event %+v", event)
		}
		if i > 0 && event.Percent <= events[i-1].Percent {
			t.Fatalf("percent not increasing: %+v", events)
		}
		if i > 0 && event.EstimatedSeconds <= events[i-1].EstimatedSeconds {
			t.Fatalf("estimate not increasing: %+v", events)
		}
	}
	if math.Abs(events[2].Percent-100) > 1e-9 {
		t.Fatalf("final percent = %f", events[2].Percent)
	}
}

func TestStitchAbortsOnLineFailure(t *testing.T) {
	synth := &fakeSynthesizer{sampleRate: 8000, channels: 1, segmentSeconds: 0.1, failAtCall: 2}
	stitcher := NewStitcher(synth, nil)

	result, err := stitcher.Stitch(context.Background(), testScript(), Options{})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if result != nil {
		t.Fatal("no partial result may survive a failed line")
	}
	if synth.calls != 2 {
		t.Fatalf("synthesis must stop at the failing line, made %d calls", synth.calls)
	}
}

func TestStitchRejectsUndecodableSegment(t *testing.T) {
	stitcher := NewStitcher(garbageSynthesizer{}, nil)
	_, err := stitcher.Stitch(context.Background(), testScript(), Options{})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

type garbageSynthesizer struct{}

func (garbageSynthesizer) Synthesize(context.Context, string, string, float64) ([]byte, error) {
	return []byte("not audio"), nil
}

func TestStitchRejectsEmptyScript(t *testing.T) {
	stitcher := NewStitcher(&fakeSynthesizer{sampleRate: 8000, channels: 1}, nil)
	_, err := stitcher.Stitch(context.Background(), script.Parse(""), Options{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStitchRejectsFormatMismatch(t *testing.T) {
	synth := &mismatchSynthesizer{}
	stitcher := NewStitcher(synth, nil)
	_, err := stitcher.Stitch(context.Background(), testScript(), Options{})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

type mismatchSynthesizer struct{ calls int }

func (m *mismatchSynthesizer) Synthesize(context.Context, string, string, float64) ([]byte, error) {
	m.calls++
	rate := 8000
	if m.calls > 1 {
		rate = 16000
	}
	return EncodeWAV(&PCM{SampleRate: rate, Channels: 1, Samples: make([]int16, 80)}), nil
}

package script

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestParseTwoSpeakerDialogue(t *testing.T) {
	parsed := Parse("Host: Hi\nGuest: Hello")

	if parsed.Title != DefaultTitle {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
	if len(parsed.Speakers) != 2 {
		t.Fatalf("expected 2 speakers, got %d", len(parsed.Speakers))
	}
	host, guest := parsed.Speakers[0], parsed.Speakers[1]
	if host.ID != "host" || host.Name != "Host" || host.Voice != "heart" || host.Color != "#3B82F6" {
		t.Fatalf("unexpected first speaker %+v", host)
	}
	if guest.ID != "guest" || guest.Name != "Guest" || guest.Voice != "bella" || guest.Color != "#10B981" {
		t.Fatalf("unexpected second speaker %+v", guest)
	}

	want := []DialogueLine{
		{Speaker: "host", Text: "Hi"},
		{Speaker: "guest", Text: "Hello"},
	}
	if !reflect.DeepEqual(parsed.Lines, want) {
		t.Fatalf("unexpected lines %+v", parsed.Lines)
	}
}

func TestParseTitleMarker(t *testing.T) {
	parsed := Parse("[TITLE] Deep Dive\n\nHost: Welcome")
	if parsed.Title != "Deep Dive" {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
	if len(parsed.Lines) != 1 {
		t.Fatalf("unexpected lines %+v", parsed.Lines)
	}
}

func TestParseHeadingBecomesTitle(t *testing.T) {
	parsed := Parse("## The Future of Energy\nHost: Let's begin")
	if parsed.Title != "The Future of Energy" {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
}

func TestParseMarkerBeatsHeading(t *testing.T) {
	parsed := Parse("# Ignored Heading\n[TITLE] Real Title\nHost: Hi")
	if parsed.Title != "Real Title" {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
}

func TestParseRepeatedSpeakerKeepsOneEntry(t *testing.T) {
	parsed := Parse("Ana: first\nBob: reply\nAna: second")
	if len(parsed.Speakers) != 2 {
		t.Fatalf("expected 2 speakers, got %+v", parsed.Speakers)
	}
	if len(parsed.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %+v", parsed.Lines)
	}
	if parsed.Lines[2].Speaker != "ana" {
		t.Fatalf("unexpected speaker for third line: %+v", parsed.Lines[2])
	}
}

func TestParseIgnoresNarration(t *testing.T) {
	parsed := Parse("Intro text without a speaker\nHost: Hi\n(stage direction)\nGuest: Hello")
	if len(parsed.Lines) != 2 {
		t.Fatalf("expected narration skipped, got %+v", parsed.Lines)
	}
}

func TestParseEmptyInput(t *testing.T) {
	parsed := Parse("")
	if parsed.Title != DefaultTitle || len(parsed.Speakers) != 0 || len(parsed.Lines) != 0 {
		t.Fatalf("unexpected result %+v", parsed)
	}
}

func TestParseVoiceRotationWraps(t *testing.T) {
	var b strings.Builder
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	for _, n := range names {
		b.WriteString(n + ": line\n")
	}
	parsed := Parse(b.String())
	if len(parsed.Speakers) != 7 {
		t.Fatalf("expected 7 speakers, got %d", len(parsed.Speakers))
	}
	if parsed.Speakers[6].Voice != parsed.Speakers[0].Voice {
		t.Fatalf("expected voice rotation to wrap: %+v", parsed.Speakers[6])
	}
}

func TestRenderRoundTrip(t *testing.T) {
	original := Parse("[TITLE] Round Trip\nHost: Hi there\nGuest: Hello back\nHost: Bye")
	reparsed := Parse(original.Render())

	if !reflect.DeepEqual(original, reparsed) {
		t.Fatalf("round trip mismatch:\noriginal %+v\nreparsed %+v", original, reparsed)
	}
}

func TestEstimatedSeconds(t *testing.T) {
	parsed := Parse("Host: " + strings.Repeat("word ", 150))
	got := parsed.EstimatedSeconds(1.0, 0.5)
	// 150 words at 150 wpm is 60s, plus one 0.5s pause.
	if math.Abs(got-60.5) > 1e-9 {
		t.Fatalf("unexpected estimate %f", got)
	}

	faster := parsed.EstimatedSeconds(2.0, 0.5)
	if math.Abs(faster-30.5) > 1e-9 {
		t.Fatalf("unexpected estimate at 2x %f", faster)
	}
}

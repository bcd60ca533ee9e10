package script

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when a script declares no title of its own.
const DefaultTitle = "Untitled Podcast"

// titleMarker introduces an explicit title line.
const titleMarker = "[TITLE]"

// wordsPerMinute is the speaking rate assumed when estimating duration.
const wordsPerMinute = 150

// DefaultVoices is the round-robin voice rotation applied to speakers in
// order of first appearance.
var DefaultVoices = []string{"heart", "bella", "dan", "liv", "will", "amy"}

// speakerColors are cycled through speakers for UI display.
var speakerColors = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444",
	"#8B5CF6", "#06B6D4", "#84CC16", "#F97316",
}

var dialoguePattern = regexp.MustCompile(`^(\w+):\s*(.+)$`)

// Speaker is one voice in the script. ID is the lowercased speaker label.
type Speaker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Voice string `json:"voice"`
	Color string `json:"color"`
}

// DialogueLine is one spoken line attributed to a speaker by ID.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// PodcastScript is the parsed form of a multi-speaker script.
type PodcastScript struct {
	Title    string         `json:"title"`
	Speakers []Speaker      `json:"speakers"`
	Lines    []DialogueLine `json:"lines"`
}

// Parse converts script text into its structured form using the default
// voice rotation.
func Parse(text string) PodcastScript {
	return ParseWithVoices(text, DefaultVoices)
}

// ParseWithVoices converts script text into its structured form, assigning
// voices from the given rotation in order of first speaker appearance.
// Lines that are not "Speaker: text" dialogue contribute nothing except,
// possibly, the title.
func ParseWithVoices(text string, voices []string) PodcastScript {
	if len(voices) == 0 {
		voices = DefaultVoices
	}

	result := PodcastScript{Title: DefaultTitle}
	speakerIndex := make(map[string]int)
	titleSet := false
	sawFirstProse := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, titleMarker) {
			if title := strings.TrimSpace(strings.TrimPrefix(line, titleMarker)); title != "" {
				result.Title = title
				titleSet = true
			}
			continue
		}

		match := dialoguePattern.FindStringSubmatch(line)
		if match == nil {
			// The first non-dialogue line doubles as the title unless one
			// was declared explicitly.
			if !titleSet && !sawFirstProse {
				sawFirstProse = true
				if title := strings.TrimSpace(strings.TrimLeft(line, "# ")); title != "" {
					result.Title = title
				}
			}
			continue
		}

		name, dialogue := match[1], strings.TrimSpace(match[2])
		id := strings.ToLower(name)
		if _, known := speakerIndex[id]; !known {
			idx := len(result.Speakers)
			speakerIndex[id] = idx
			result.Speakers = append(result.Speakers, Speaker{
				ID:    id,
				Name:  name,
				Voice: voices[idx%len(voices)],
				Color: speakerColors[idx%len(speakerColors)],
			})
		}
		result.Lines = append(result.Lines, DialogueLine{Speaker: id, Text: dialogue})
	}

	return result
}

// Render writes the script back out in parseable text form.
func (s PodcastScript) Render() string {
	var b strings.Builder
	if s.Title != "" && s.Title != DefaultTitle {
		b.WriteString(titleMarker)
		b.WriteByte(' ')
		b.WriteString(s.Title)
		b.WriteString("\n\n")
	}
	names := make(map[string]string, len(s.Speakers))
	for _, speaker := range s.Speakers {
		names[speaker.ID] = speaker.Name
	}
	for _, line := range s.Lines {
		name := names[line.Speaker]
		if name == "" {
			name = line.Speaker
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// SpeakerByID returns the speaker with the given ID.
func (s PodcastScript) SpeakerByID(id string) (Speaker, bool) {
	for _, speaker := range s.Speakers {
		if speaker.ID == id {
			return speaker, true
		}
	}
	return Speaker{}, false
}

// EstimatedSeconds predicts the stitched duration: each line's word count at
// the assumed speaking rate adjusted for playback speed, plus one pause per
// line.
func (s PodcastScript) EstimatedSeconds(speed, pauseBetweenSpeakers float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	var total float64
	for _, line := range s.Lines {
		words := len(strings.Fields(line.Text))
		total += float64(words) / wordsPerMinute * 60 / speed
		total += pauseBetweenSpeakers
	}
	return total
}

package analysis

import (
	"sort"
	"strings"
)

// Analysis is the classification result for a piece of text.
type Analysis struct {
	Theme       string   `json:"theme"`
	Mood        string   `json:"mood"`
	Genre       string   `json:"genre"`
	Keywords    []string `json:"keywords"`
	VisualStyle string   `json:"visualStyle"`
}

// Default categories applied when no keyword table matches.
const (
	DefaultTheme = "general"
	DefaultMood  = "neutral"
	DefaultGenre = "discussion"
)

type category struct {
	name     string
	keywords []string
}

// Category tables are ordered; the first category with a substring match
// wins.
var themeTable = []category{
	{"business", []string{"business", "marketing", "entrepreneurship", "startup", "funding", "investor", "revenue", "market"}},
	{"technology", []string{"technology", "tech", "ai", "software", "digital", "computer"}},
	{"health", []string{"health", "medical", "wellness", "fitness", "nutrition"}},
	{"education", []string{"education", "learning", "teaching", "curriculum", "classroom"}},
	{"science", []string{"science", "research", "study", "experiment", "discovery"}},
}

var moodTable = []category{
	{"energetic", []string{"exciting", "amazing", "incredible", "thrilling"}},
	{"calm", []string{"calm", "peaceful", "serene", "relaxing"}},
	{"serious", []string{"serious", "important", "critical", "urgent"}},
	{"playful", []string{"fun", "entertaining", "humorous", "playful"}},
}

var genreTable = []category{
	{"interview", []string{"interview", "conversation"}},
	{"storytelling", []string{"story", "narrative"}},
	{"news", []string{"news", "current events"}},
	{"educational", []string{"tutorial", "how to", "lesson"}},
}

var stopwords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "have": {}, "will": {}, "been": {},
	"from": {}, "they": {}, "know": {}, "want": {}, "good": {}, "much": {},
	"some": {}, "time": {}, "very": {}, "when": {}, "come": {}, "here": {},
	"just": {}, "like": {}, "long": {}, "make": {}, "many": {}, "over": {},
	"such": {}, "take": {}, "than": {}, "them": {}, "well": {}, "were": {},
}

const maxKeywords = 5

// Analyze classifies text and extracts its leading keywords.
func Analyze(text string) Analysis {
	content := strings.ToLower(text)

	theme := classify(content, themeTable, DefaultTheme)
	mood := classify(content, moodTable, DefaultMood)
	genre := classify(content, genreTable, DefaultGenre)

	return Analysis{
		Theme:       theme,
		Mood:        mood,
		Genre:       genre,
		Keywords:    ExtractKeywords(text),
		VisualStyle: recommendVisualStyle(theme, mood, genre),
	}
}

func classify(content string, table []category, fallback string) string {
	for _, cat := range table {
		for _, keyword := range cat.keywords {
			if strings.Contains(content, keyword) {
				return cat.name
			}
		}
	}
	return fallback
}

// ExtractKeywords returns the most frequent words longer than three
// characters, excluding stopwords, ordered by frequency then first
// appearance.
func ExtractKeywords(text string) []string {
	var normalized strings.Builder
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			normalized.WriteRune(r)
		} else {
			normalized.WriteByte(' ')
		}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, word := range strings.Fields(normalized.String()) {
		if len(word) <= 3 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		if _, seen := counts[word]; !seen {
			firstSeen[word] = i
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})
	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}

func recommendVisualStyle(theme, mood, genre string) string {
	switch {
	case theme == "business" && mood == "serious":
		return "professional"
	case theme == "technology":
		return "tech"
	case genre == "storytelling":
		return "storytelling"
	case genre == "educational":
		return "educational"
	case mood == "playful" || mood == "energetic":
		return "entertainment"
	default:
		return "creative"
	}
}

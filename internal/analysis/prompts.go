package analysis

import (
	"fmt"
	"strings"
)

func interpolate(template string, a Analysis) string {
	out := strings.Replace(template, "{theme}", a.Theme, 1)
	return strings.Replace(out, "{mood}", a.Mood, 1)
}

func topKeywords(a Analysis, n int) []string {
	if len(a.Keywords) < n {
		n = len(a.Keywords)
	}
	return a.Keywords[:n]
}

// BuildPrompt interpolates the style template with the content's analysis
// and prefixes an optional base prompt.
func BuildPrompt(basePrompt, content string, style Style) string {
	a := Analyze(content)
	prompt := interpolate(style.PromptTemplate, a)
	if keywords := topKeywords(a, 3); len(keywords) > 0 {
		prompt += ", featuring elements related to " + strings.Join(keywords, ", ")
	}
	if base := strings.TrimSpace(basePrompt); base != "" {
		prompt = base + ", " + prompt
	}
	return prompt
}

// BuildCoverPrompt produces a podcast cover prompt from the content, the
// show title, and a style, optionally mixing in custom elements.
func BuildCoverPrompt(content, podcastTitle string, style Style, customElements []string) string {
	a := Analyze(content)
	prompt := interpolate(style.PromptTemplate, a)
	prompt += fmt.Sprintf(", podcast title: %q", podcastTitle)
	if keywords := topKeywords(a, 3); len(keywords) > 0 {
		prompt += ", incorporating " + strings.Join(keywords, ", ")
	}
	if len(customElements) > 0 {
		prompt += ", including " + strings.Join(customElements, ", ")
	}
	prompt += ", high quality, professional podcast cover design, square format, suitable for streaming platforms"
	return prompt
}

// BuildContentImagePrompt produces an illustration prompt for inline content
// imagery. imageType defaults to "illustration".
func BuildContentImagePrompt(content, imageType string) string {
	if strings.TrimSpace(imageType) == "" {
		imageType = "illustration"
	}
	a := Analyze(content)
	prompt := fmt.Sprintf("%s representing %s theme with %s mood", imageType, a.Theme, a.Mood)
	if keywords := topKeywords(a, 3); len(keywords) > 0 {
		prompt += ", featuring " + strings.Join(keywords, ", ")
	}
	switch a.Genre {
	case "educational":
		prompt += ", educational style, clear and informative visual design"
	case "storytelling":
		prompt += ", narrative style, engaging visual storytelling"
	case "interview":
		prompt += ", conversational style, professional yet approachable"
	default:
		prompt += ", modern and engaging visual style"
	}
	prompt += ", high quality, detailed artwork, suitable for content illustration"
	return prompt
}

package textutil

import (
	"fmt"
	"strings"
)

// TruncationNotice is appended to any value shortened by TruncateWithNotice.
const TruncationNotice = "...(truncated for storage)"

// CountWords returns the number of whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateWithNotice shortens text to at most limit runes and appends the
// truncation notice. Text at or under the limit is returned unchanged.
func TruncateWithNotice(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + TruncationNotice
}

// FormatFileSize renders a byte count using the largest fitting unit.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// ChunkText splits text into pieces of at most maxChars runes, preferring
// paragraph breaks, then sentence breaks, before cutting mid-text. Returns
// the whole text as a single chunk when it already fits.
func ChunkText(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var chunks []string
	remaining := []rune(text)
	for len(remaining) > maxChars {
		cut := findBreak(remaining, maxChars)
		chunk := strings.TrimSpace(string(remaining[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = remaining[cut:]
	}
	if tail := strings.TrimSpace(string(remaining)); tail != "" {
		chunks = append(chunks, tail)
	}
	return chunks
}

func findBreak(runes []rune, maxChars int) int {
	window := runes[:maxChars]
	for _, sep := range [][]rune{{'\n', '\n'}, {'.', ' '}, {'!', ' '}, {'?', ' '}, {'\n'}, {' '}} {
		if idx := lastRuneIndex(window, sep); idx > maxChars/2 {
			return idx + len(sep)
		}
	}
	return maxChars
}

func lastRuneIndex(haystack, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

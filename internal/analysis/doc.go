// Package analysis classifies text into theme, mood, and genre using fixed
// keyword tables, extracts the most frequent keywords, and builds image
// generation prompts from the result. Everything here is pure string work
// with no external calls, so the same input always produces the same output.
package analysis

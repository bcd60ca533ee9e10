// Package script parses multi-speaker podcast scripts written in the
// "Speaker: line" dialogue format. Parsing is pure and never fails: lines
// that do not match the dialogue shape are ignored, and an empty input
// yields an empty script with the default title.
package script

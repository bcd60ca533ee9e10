// Package audio decodes, concatenates, and re-encodes PCM speech segments.
//
// The stitcher synthesizes one segment per dialogue line, strictly in order,
// and splices them with silence gaps into a single canonical WAV asset
// (16-bit PCM, header derived from the first segment). Any per-line failure
// aborts the whole run; there is no partial output.
package audio

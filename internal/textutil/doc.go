// Package textutil provides the small text helpers shared across the
// pipeline: word counting, size formatting, storage truncation, context
// chunking, and filename sanitization.
package textutil

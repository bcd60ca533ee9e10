// Package logging assembles the structured slog loggers used across
// papercast.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so pipeline code tags log lines
// with component, step, and document identifiers the same way everywhere.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging

// Package lemonfox wraps the Lemonfox-style AI HTTP API surface: chat
// completions (with SSE streaming), speech synthesis, image generation, and
// audio transcription.
//
// All endpoints share one client with a configurable timeout and a retry
// policy for rate limits and transient server errors. Failures carry the
// services.ErrAPIRequest marker.
package lemonfox

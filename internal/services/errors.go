package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad input shape, size, or type caught before any
	// side effect.
	ErrValidation = errors.New("validation failed")
	// ErrUnsupportedFormat marks a document type no extraction strategy
	// handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtraction marks a document parsing failure. Multi-page documents
	// may degrade per page instead of raising this.
	ErrExtraction = errors.New("extraction failed")
	// ErrSynthesis marks any stitching-pipeline failure. Always total: no
	// partial audio survives.
	ErrSynthesis = errors.New("synthesis failed")
	// ErrAPIRequest marks a non-2xx response or timeout from an external
	// HTTP call.
	ErrAPIRequest = errors.New("api request failed")
	// ErrTemplateNotFound marks a workflow start against an unknown
	// template identifier.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrDependencyMissing marks a step dependency that names no step in
	// the template.
	ErrDependencyMissing = errors.New("dependency missing")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrAPIRequest
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Package services holds the shared error taxonomy for external
// collaborators (generative model, render and concat tools) plus helpers
// for wrapping stage failures with context.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks missing inputs: chapter files, manifests, sections.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or schema-invalid input.
	ErrValidation = errors.New("validation error")
	// ErrContent marks inputs that exist but hold no usable content.
	ErrContent = errors.New("content error")
	// ErrExternalTool marks a render/concat tool that ran and failed.
	ErrExternalTool = errors.New("external tool error")
	// ErrToolMissing marks a render/concat tool that is not installed.
	ErrToolMissing = errors.New("tool not installed")
	// ErrModel marks a generative-model call that failed after retries or
	// returned unusable output.
	ErrModel = errors.New("model error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Diagnosis returns a one-line category label suitable for CLI output.
func Diagnosis(err error) string {
	switch {
	case errors.Is(err, ErrToolMissing):
		return "required tool is not installed"
	case errors.Is(err, ErrExternalTool):
		return "external tool failed"
	case errors.Is(err, ErrModel):
		return "generative model call failed"
	case errors.Is(err, ErrNotFound):
		return "input not found"
	case errors.Is(err, ErrContent):
		return "input has no usable content"
	case errors.Is(err, ErrValidation):
		return "input failed validation"
	default:
		return "pipeline failure"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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

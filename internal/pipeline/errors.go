package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Stages wrap these so callers
// can classify with errors.Is.
var (
	// ErrInvalidInput marks a bad path or format. Fatal for the file, never
	// retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrToolUnavailable marks a missing external engine. Triggers the
	// fallback chain; only surfaced when every fallback is exhausted.
	ErrToolUnavailable = errors.New("external tool unavailable")

	// ErrToolFailed marks an external engine that ran and failed. Fatal for
	// the current file only.
	ErrToolFailed = errors.New("external tool failed")

	// ErrArtworkFailed is non-fatal; the file completes without artwork.
	ErrArtworkFailed = errors.New("artwork generation failed")

	// ErrMetadataFailed is non-fatal; the file is delivered untagged.
	ErrMetadataFailed = errors.New("metadata embed failed")
)

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, sentinel error, cause error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %w", sentinel, cause)}
}

package apsara

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMessageNotFound indicates the requested message does not exist
	// within its session.
	ErrMessageNotFound = errors.New("message not found")

	// ErrModelNotFound indicates the requested model is not in the catalog.
	ErrModelNotFound = errors.New("model not found")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")
)

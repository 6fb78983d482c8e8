package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no parser handles the file extension.
	// Ingestion fails cleanly and the store is unchanged.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrIndexUnavailable indicates vector search was attempted before a
	// successful index rebuild. Not fatal: search degrades to keyword-only.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// The ask flow degrades to printing the augmented prompt.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

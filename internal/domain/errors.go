package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a registration is missing its id or target.
	ErrInvalidRequest = errors.New("missing required polling parameters")

	// ErrNotFound is returned when no live job exists for an id.
	ErrNotFound = errors.New("no polling request found with that ID")

	// ErrInvalidTransition is returned when a job would move backwards or skip a state.
	ErrInvalidTransition = errors.New("invalid job state transition")

	// ErrJobFailed wraps the collaborator error of a failed background execution.
	ErrJobFailed = errors.New("job failed")

	// ErrMissingMessage is returned when a chat request carries no message.
	ErrMissingMessage = errors.New("message is required")

	// ErrMissingPrompt is returned when a raw prompt request carries no prompt.
	ErrMissingPrompt = errors.New("missing prompt parameter")

	// ErrProviderNotConfigured is returned when a provider has no API key.
	ErrProviderNotConfigured = errors.New("API key not configured on server")

	// ErrEmptyCompletion is returned when a provider answers without any text.
	ErrEmptyCompletion = errors.New("failed to parse API response")

	// ErrRateLimitExceeded is returned when API rate limit is hit.
	ErrRateLimitExceeded = errors.New("rate limit exceeded, try again later")
)

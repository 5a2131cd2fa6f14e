package domain

import "errors"

// Error kinds surfaced by the send-event command. Call sites wrap these so
// callers can classify failures with errors.Is.
var (
	// ErrValidation marks malformed user input: timestamps, key:value pairs,
	// IP addresses and event files.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks a missing or malformed destination credential.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks unreadable files and glob expansion failures.
	ErrIO = errors.New("i/o error")
)

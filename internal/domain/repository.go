package domain

import "context"

// Transport delivers an assembled event to the ingestion endpoint.
// Send blocks until the attempt completes and returns the identifier the
// event was sent under. An error describes a delivery failure; the event
// may or may not have been accepted.
type Transport interface {
	Send(ctx context.Context, event *Event, dsn DSN) (EventID, error)
}

// CredentialSource yields the destination credential from the current
// configuration.
type CredentialSource interface {
	DSN() (DSN, error)
}

// ReleaseDetector guesses a release name from the environment.
type ReleaseDetector interface {
	DetectRelease() (string, bool)
}

// UserNameSource reports the name of the OS user running the command.
type UserNameSource interface {
	CurrentUserName() (string, bool)
}

// EnvironSource provides a snapshot of the process environment.
type EnvironSource interface {
	Environ() map[string]string
}

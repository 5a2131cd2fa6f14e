package pii

import (
	"log/slog"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor masks the values of named environment variables before they are
// attached to an event.
type Redactor struct {
	keysToRedact map[string]struct{} // Use a map for O(1) lookups
	logger       *slog.Logger
}

// NewRedactor creates a new Redactor for the given variable names.
func NewRedactor(keys []string, logger *slog.Logger) *Redactor {
	keySet := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		keySet[key] = struct{}{}
	}
	return &Redactor{
		keysToRedact: keySet,
		logger:       logger,
	}
}

// Redact replaces matching values in place and reports whether anything was
// masked. Keys are kept so the snapshot still lists every variable.
func (r *Redactor) Redact(environ map[string]string) bool {
	if r == nil || len(r.keysToRedact) == 0 || len(environ) == 0 {
		return false
	}

	redacted := 0
	for key := range r.keysToRedact {
		if _, ok := environ[key]; ok {
			environ[key] = RedactedPlaceholder
			redacted++
		}
	}

	if redacted > 0 {
		r.logger.Debug("redacted environment variables", "count", redacted)
	}
	return redacted > 0
}

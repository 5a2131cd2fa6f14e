package usecase

import (
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/V4T54L/send-event/internal/domain"
)

// ParseTimestamp accepts Unix epoch seconds, RFC 2822 or RFC 3339; the
// first format that parses wins.
func ParseTimestamp(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q: expected unix seconds, RFC 2822 or RFC 3339", domain.ErrValidation, s)
}

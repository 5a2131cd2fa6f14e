package usecase

import (
	"fmt"
	"strings"

	"github.com/V4T54L/send-event/internal/domain"
)

// splitPair splits "key:value" on the first colon only, so values may
// themselves contain colons. An empty key such as ":value" is rejected
// rather than stored under "".
func splitPair(kind, pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, ":")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing %s key in %q", domain.ErrValidation, kind, pair)
	}
	if !ok {
		return "", "", fmt.Errorf("%w: missing %s value in %q", domain.ErrValidation, kind, pair)
	}
	return key, value, nil
}

// ParseTags parses repeated key:value tag arguments. Later keys overwrite
// earlier ones. Returns nil when no pairs are given.
func ParseTags(pairs []string) (domain.Tags, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(domain.Tags, len(pairs))
	for _, pair := range pairs {
		key, value, err := splitPair("tag", pair)
		if err != nil {
			return nil, err
		}
		tags[key] = value
	}
	return tags, nil
}

// MergeExtra applies key:value extra arguments onto extra as string values.
func MergeExtra(extra domain.Extra, pairs []string) error {
	for _, pair := range pairs {
		key, value, err := splitPair("extra", pair)
		if err != nil {
			return err
		}
		extra[key] = value
	}
	return nil
}

// ParseUser builds a user from key:value arguments. id, email, username and
// ip_address have dedicated fields; anything else lands in Other. The IP
// address defaults to the unspecified address.
func ParseUser(pairs []string) (*domain.User, error) {
	user := &domain.User{}
	for _, pair := range pairs {
		key, value, err := splitPair("user", pair)
		if err != nil {
			return nil, err
		}

		switch key {
		case "id":
			user.ID = value
		case "email":
			user.Email = value
		case "username":
			user.Username = value
		case "ip_address":
			ip, err := domain.ParseIPAddress(value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid user ip_address %q: %v", domain.ErrValidation, value, err)
			}
			user.IPAddress = ip
		default:
			if user.Other == nil {
				user.Other = make(map[string]string)
			}
			user.Other[key] = value
		}
	}

	if user.IPAddress == nil {
		user.IPAddress = domain.UnspecifiedIPAddress()
	}
	return user, nil
}

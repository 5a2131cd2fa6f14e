package usecase

import "github.com/V4T54L/send-event/internal/domain"

// firstPresent returns the result of the first candidate that yields a value.
func firstPresent[T any](candidates ...func() (T, bool)) (T, bool) {
	for _, candidate := range candidates {
		if v, ok := candidate(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// given treats a non-empty string as present.
func given(s string) func() (string, bool) {
	return func() (string, bool) { return s, s != "" }
}

func fallback[T any](v T) func() (T, bool) {
	return func() (T, bool) { return v, true }
}

func parsedLevel(s string) func() (domain.Level, bool) {
	return func() (domain.Level, bool) { return domain.ParseLevel(s) }
}

// resolveLevel parses s, defaulting to error.
func resolveLevel(s string) domain.Level {
	level, _ := firstPresent(parsedLevel(s), fallback(domain.LevelError))
	return level
}

// resolvePlatform returns s or the default platform.
func resolvePlatform(s string) string {
	platform, _ := firstPresent(given(s), fallback(domain.DefaultPlatform))
	return platform
}

// resolveRelease prefers the explicit value and falls back to detection.
func resolveRelease(explicit string, detector domain.ReleaseDetector) (string, bool) {
	candidates := []func() (string, bool){given(explicit)}
	if detector != nil {
		candidates = append(candidates, detector.DetectRelease)
	}
	return firstPresent(candidates...)
}

// resolveUser parses explicit user pairs or falls back to the OS user name.
// Returns nil when neither is available.
func resolveUser(pairs []string, names domain.UserNameSource) (*domain.User, error) {
	if len(pairs) > 0 {
		return ParseUser(pairs)
	}
	if names == nil {
		return nil, nil
	}
	name, ok := names.CurrentUserName()
	if !ok {
		return nil, nil
	}
	return &domain.User{Username: name, IPAddress: domain.UnspecifiedIPAddress()}, nil
}

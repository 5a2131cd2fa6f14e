package usecase

import (
	"testing"

	"github.com/V4T54L/send-event/internal/domain"
	"github.com/V4T54L/send-event/internal/domain/mocks"
)

func TestFirstPresent(t *testing.T) {
	missing := func() (int, bool) { return 0, false }
	calls := 0
	counted := func() (int, bool) {
		calls++
		return 9, true
	}

	got, ok := firstPresent(missing, fallback(3), counted)
	if !ok || got != 3 {
		t.Errorf("got (%d, %v), want (3, true)", got, ok)
	}
	if calls != 0 {
		t.Error("candidates after the first present one should not run")
	}

	if _, ok := firstPresent(missing); ok {
		t.Error("expected no value when every candidate is missing")
	}
}

func TestResolveLevelAndPlatform(t *testing.T) {
	for in, want := range map[string]domain.Level{
		"":        domain.LevelError,
		"info":    domain.LevelInfo,
		"INFO":    domain.LevelError,
		"verbose": domain.LevelError,
		"fatal":   domain.LevelFatal,
	} {
		if got := resolveLevel(in); got != want {
			t.Errorf("resolveLevel(%q) = %q, want %q", in, got, want)
		}
	}

	if got := resolvePlatform(""); got != "other" {
		t.Errorf("expected default platform, got %q", got)
	}
	if got := resolvePlatform("python"); got != "python" {
		t.Errorf("expected explicit platform, got %q", got)
	}
}

func TestResolveRelease(t *testing.T) {
	detector := &mocks.MockReleaseDetector{Release: "detected"}

	if got, _ := resolveRelease("explicit", detector); got != "explicit" {
		t.Errorf("explicit release should win, got %q", got)
	}
	if got, ok := resolveRelease("", detector); !ok || got != "detected" {
		t.Errorf("expected detected release, got (%q, %v)", got, ok)
	}
	if _, ok := resolveRelease("", &mocks.MockReleaseDetector{}); ok {
		t.Error("expected no release when detection fails")
	}
	if _, ok := resolveRelease("", nil); ok {
		t.Error("expected no release without a detector")
	}
}

func TestResolveUser(t *testing.T) {
	t.Run("OS user fallback", func(t *testing.T) {
		user, err := resolveUser(nil, &mocks.MockUserNameSource{Name: "alice"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user == nil || user.Username != "alice" {
			t.Fatalf("expected OS user, got %+v", user)
		}
		if user.IPAddress == nil || user.IPAddress.String() != "0.0.0.0" {
			t.Errorf("expected defaulted ip address, got %v", user.IPAddress)
		}
	})

	t.Run("OS lookup fails", func(t *testing.T) {
		user, err := resolveUser(nil, &mocks.MockUserNameSource{})
		if err != nil || user != nil {
			t.Errorf("expected no user and no error, got %+v, %v", user, err)
		}
	})

	t.Run("Explicit pairs skip the OS user", func(t *testing.T) {
		user, err := resolveUser([]string{"id:7"}, &mocks.MockUserNameSource{Name: "alice"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "7" || user.Username != "" {
			t.Errorf("unexpected user %+v", user)
		}
	})
}

package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warning", LevelWarning, true},
		{"error", LevelError, true},
		{"fatal", LevelFatal, true},
		{"ERROR", "", false},
		{"warn", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEventDecode(t *testing.T) {
	raw := `{
		"event_id": "fc6d8c0c43fc4630ad850ee518f1b9d0",
		"level": "warning",
		"timestamp": 1700000000,
		"tags": {"a": "1"},
		"extra": {"n": 3},
		"user": {"id": "42", "ip_address": "{{auto}}", "team": "core"},
		"breadcrumbs": [{"timestamp": "2023-11-14T22:13:20Z", "message": "boot"}],
		"unknown_field": true
	}`

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID.String() != "fc6d8c0c43fc4630ad850ee518f1b9d0" {
		t.Errorf("event id mismatch: got %s", event.ID)
	}
	if event.Level != LevelWarning {
		t.Errorf("expected warning level, got %q", event.Level)
	}
	if !event.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected timestamp %v", event.Timestamp)
	}
	if event.User == nil || event.User.ID != "42" || event.User.Other["team"] != "core" {
		t.Errorf("unexpected user %+v", event.User)
	}
	if event.User.IPAddress.String() != "0.0.0.0" {
		t.Errorf("expected auto ip to decode as unspecified, got %s", event.User.IPAddress)
	}
	if len(event.Breadcrumbs) != 1 || event.Breadcrumbs[0].Message != "boot" {
		t.Errorf("unexpected breadcrumbs %+v", event.Breadcrumbs)
	}
}

func TestEventDecode_TypeMismatch(t *testing.T) {
	tests := map[string]string{
		"tags not strings": `{"tags": {"a": 1}}`,
		"unknown level":    `{"level": "loud"}`,
		"bad event id":     `{"event_id": "nope"}`,
		"bad timestamp":    `{"timestamp": "yesterday"}`,
		"bad user attr":    `{"user": {"plan": 7}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var event Event
			if err := json.Unmarshal([]byte(raw), &event); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestEventDecode_NullTimestamps(t *testing.T) {
	raw := `{"timestamp": null, "breadcrumbs": [{"timestamp": null, "message": "boot"}]}`

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Timestamp != nil {
		t.Errorf("expected no event timestamp, got %v", event.Timestamp)
	}
	if len(event.Breadcrumbs) != 1 || !event.Breadcrumbs[0].Timestamp.IsZero() {
		t.Errorf("expected one breadcrumb with zero timestamp, got %+v", event.Breadcrumbs)
	}
}

func TestEventEncode(t *testing.T) {
	ip, err := ParseIPAddress("10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event := Event{
		ID:          NewEventID(),
		Level:       LevelError,
		Platform:    DefaultPlatform,
		User:        &User{Username: "alice", IPAddress: ip, Other: map[string]string{"team": "core"}},
		Breadcrumbs: Breadcrumbs{{Timestamp: *NewTimestamp(time.Unix(0, 0)), Message: "x"}},
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"event_id":"` + event.ID.String() + `"`,
		`"user":{"ip_address":"10.0.0.1","team":"core","username":"alice"}`,
		`"breadcrumbs":{"values":[{"timestamp":"1970-01-01T00:00:00Z","message":"x"}]}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded event missing %s\n%s", want, out)
		}
	}
	if strings.Contains(event.ID.String(), "-") {
		t.Error("event id should be encoded without dashes")
	}
	if strings.Contains(out, `"logentry"`) || strings.Contains(out, `"tags"`) {
		t.Errorf("unset fields should be omitted: %s", out)
	}
}

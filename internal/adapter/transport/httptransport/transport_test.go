package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/V4T54L/send-event/internal/adapter/metrics"
	"github.com/V4T54L/send-event/internal/domain"
)

var testSDK = domain.SdkInfo{Name: "sentry.go.send-event", Version: "1.0.0"}

func newTestTransport(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Transport, domain.DSN) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dsn, err := domain.ParseDSN(strings.Replace(server.URL, "http://", "http://pub:sec@", 1) + "/42")
	if err != nil {
		t.Fatalf("failed to build DSN: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithBackoff(time.Millisecond), WithRateLimit(0, 0)}, opts...)
	return New(testSDK, logger, opts...), dsn
}

func TestTransport_Send(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotEvent map[string]any

	tr, dsn := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get(authHeader)
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotEvent); err != nil {
			t.Errorf("server failed to decode body: %v", err)
		}
		w.Write([]byte(`{"id":"abc"}`))
	})

	event := &domain.Event{ID: domain.NewEventID(), Level: domain.LevelInfo, Platform: domain.DefaultPlatform}
	id, err := tr.Send(context.Background(), event, dsn)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != event.ID {
		t.Errorf("returned id mismatch: got %s, want %s", id, event.ID)
	}
	if gotPath != "/api/42/store/" {
		t.Errorf("unexpected path %q", gotPath)
	}
	wantAuth := "Sentry sentry_version=7, sentry_client=sentry.go.send-event/1.0.0, sentry_key=pub, sentry_secret=sec"
	if gotAuth != wantAuth {
		t.Errorf("unexpected auth header:\n got %q\nwant %q", gotAuth, wantAuth)
	}
	if gotType != "application/json" {
		t.Errorf("unexpected content type %q", gotType)
	}
	if gotEvent["event_id"] != event.ID.String() || gotEvent["level"] != "info" {
		t.Errorf("unexpected body %v", gotEvent)
	}
}

func TestTransport_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	m := metrics.NewDispatchMetrics()

	tr, dsn := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, WithMaxRetries(2), WithMetrics(m))

	_, err := tr.Send(context.Background(), &domain.Event{ID: domain.NewEventID()}, dsn)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if got := testutil.ToFloat64(m.RetriesTotal); got != 2 {
		t.Errorf("expected 2 retries recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsTotal.WithLabelValues("sent")); got != 1 {
		t.Errorf("expected 1 sent event recorded, got %v", got)
	}
}

func TestTransport_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	tr, dsn := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithMaxRetries(1))

	event := &domain.Event{ID: domain.NewEventID()}
	id, err := tr.Send(context.Background(), event, dsn)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 APIError, got %v", err)
	}
	if id != event.ID {
		t.Error("id should be returned even when the send fails")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestTransport_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	tr, dsn := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, strings.Repeat("x", 600), http.StatusForbidden)
	})

	_, err := tr.Send(context.Background(), &domain.Event{ID: domain.NewEventID()}, dsn)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
	if len(apiErr.Body) != 512 {
		t.Errorf("expected body truncated to 512 bytes, got %d", len(apiErr.Body))
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}

func TestBackoffDelay(t *testing.T) {
	tr := New(testSDK, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if got := tr.backoffDelay(1, nil); got != time.Second {
		t.Errorf("attempt 1: got %v", got)
	}
	if got := tr.backoffDelay(3, &APIError{StatusCode: 500}); got != 4*time.Second {
		t.Errorf("attempt 3: got %v", got)
	}
	if got := tr.backoffDelay(1, &APIError{StatusCode: 429, retryAfter: "7"}); got != 7*time.Second {
		t.Errorf("retry-after: got %v", got)
	}
}

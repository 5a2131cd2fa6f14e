package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/V4T54L/send-event/internal/adapter/metrics"
	"github.com/V4T54L/send-event/internal/domain"
)

const authHeader = "X-Sentry-Auth"

// APIError represents a non-2xx response from the store endpoint.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string // internal: Retry-After header value for 429s
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Transport posts events to the store endpoint named by the DSN.
type Transport struct {
	client      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	metrics     *metrics.DispatchMetrics
	logger      *slog.Logger
}

// Option configures Transport behavior.
type Option func(*Transport)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.httpClient.Timeout = d
	}
}

// WithMaxRetries sets how many times a 429 or 5xx response is retried.
func WithMaxRetries(n int) Option {
	return func(t *Transport) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(t *Transport) {
		t.baseBackoff = d
	}
}

// WithRateLimit paces sends to r events per second. A non-positive r
// disables pacing.
func WithRateLimit(r float64, burst int) Option {
	return func(t *Transport) {
		if r <= 0 {
			t.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithMetrics records send outcomes.
func WithMetrics(m *metrics.DispatchMetrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.httpClient = c
	}
}

// New creates a Transport identifying itself as sdk.
func New(sdk domain.SdkInfo, logger *slog.Logger, opts ...Option) *Transport {
	t := &Transport{
		client: sdk.Name + "/" + sdk.Version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries:  2,
		baseBackoff: time.Second,
		logger:      logger.With("component", "http_transport"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send posts the event and returns its identifier. Retries on 429 (with
// Retry-After) and 5xx (with exponential backoff). Returns *APIError for a
// final non-2xx response.
func (t *Transport) Send(ctx context.Context, event *domain.Event, dsn domain.DSN) (domain.EventID, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return event.ID, fmt.Errorf("failed to marshal event: %w", err)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return event.ID, err
		}
	}

	start := time.Now()
	err = t.post(ctx, body, dsn)
	t.metrics.ObserveSent(err == nil, len(body), time.Since(start).Seconds())

	return event.ID, err
}

func (t *Transport) post(ctx context.Context, body []byte, dsn domain.DSN) error {
	storeURL := dsn.StoreURL()

	var lastErr *APIError
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			t.metrics.ObserveRetry()
			wait := t.backoffDelay(attempt, lastErr)
			t.logger.Debug("retrying event send", "attempt", attempt, "wait", wait, "error", lastErr)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, storeURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", t.client)
		req.Header.Set(authHeader, dsn.AuthHeader(t.client))

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return err
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		bodyStr := string(respBody)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}

		return apiErr
	}

	return lastErr
}

// backoffDelay returns the wait duration before a retry attempt.
func (t *Transport) backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return t.baseBackoff * time.Duration(1<<(attempt-1))
}

package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/send-event/internal/adapter/metrics"
	"github.com/V4T54L/send-event/internal/domain"
)

// Transport appends serialized events to a Redis Stream. A relay process
// reading the stream forwards them to the store endpoint.
type Transport struct {
	client  *redis.Client
	stream  string
	metrics *metrics.DispatchMetrics
	logger  *slog.Logger
}

// New creates a Redis stream transport.
func New(client *redis.Client, stream string, m *metrics.DispatchMetrics, logger *slog.Logger) *Transport {
	return &Transport{
		client:  client,
		stream:  stream,
		metrics: m,
		logger:  logger.With("component", "redis_transport"),
	}
}

// Send adds the event to the stream and returns its identifier.
func (t *Transport) Send(ctx context.Context, event *domain.Event, dsn domain.DSN) (domain.EventID, error) {
	values, size, err := streamValues(event, dsn)
	if err != nil {
		return event.ID, err
	}

	start := time.Now()
	msgID, err := t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: t.stream,
		Values: values,
	}).Result()
	t.metrics.ObserveSent(err == nil, size, time.Since(start).Seconds())
	if err != nil {
		return event.ID, fmt.Errorf("failed to add event to stream %s: %w", t.stream, err)
	}

	t.logger.Debug("event added to stream", "stream", t.stream, "message_id", msgID, "event_id", event.ID)
	return event.ID, nil
}

// Close releases the Redis connection pool.
func (t *Transport) Close() error {
	return t.client.Close()
}

// streamValues builds the stream entry fields. The DSN is stored without its
// secret key; the relay resolves credentials by public key.
func streamValues(event *domain.Event, dsn domain.DSN) (map[string]interface{}, int, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal event: %w", err)
	}
	return map[string]interface{}{
		"event_id":  event.ID.String(),
		"dsn":       dsn.String(),
		"store_url": dsn.StoreURL(),
		"payload":   string(payload),
	}, len(payload), nil
}

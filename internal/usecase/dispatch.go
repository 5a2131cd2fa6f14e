package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/V4T54L/send-event/internal/domain"
)

// Dispatcher hands events to the transport one at a time.
type Dispatcher struct {
	transport domain.Transport
	sdk       domain.SdkInfo
	now       func() time.Time
	logger    *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(transport domain.Transport, sdk domain.SdkInfo, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		sdk:       sdk,
		now:       time.Now,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Dispatch fills missing dispatch defaults, sends the event and returns its
// identifier. Delivery is best-effort: a transport failure is logged and the
// identifier is still returned.
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.Event, dsn domain.DSN) domain.EventID {
	d.applyDefaults(event)

	id, err := d.transport.Send(ctx, event, dsn)
	if id.IsZero() {
		id = event.ID
	}
	if err != nil {
		d.logger.Warn("event may not have been delivered", "event_id", id.String(), "error", err)
	} else {
		d.logger.Debug("event sent", "event_id", id.String(), "dsn", dsn.String())
	}
	return id
}

func (d *Dispatcher) applyDefaults(event *domain.Event) {
	if event.ID.IsZero() {
		event.ID = domain.NewEventID()
	}
	if event.Timestamp == nil {
		event.Timestamp = domain.NewTimestamp(d.now())
	}
	if event.Level == "" {
		event.Level = domain.LevelError
	}
	if event.Platform == "" {
		event.Platform = domain.DefaultPlatform
	}
	if event.Sdk == nil {
		sdk := d.sdk
		event.Sdk = &sdk
	}
}

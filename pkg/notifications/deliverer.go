package notifications

import (
	"context"
	"log/slog"

	"github.com/idadental/registration/pkg/logger"
)

// Deliverer pushes a stored notification to the user right away.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, n Notification) error

func (f DelivererFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// MultiDeliverer fans out to several channels. Failures are logged, not returned.
type MultiDeliverer struct {
	deliverers []Deliverer
	logger     *slog.Logger
}

func NewMultiDeliverer(log *slog.Logger, deliverers ...Deliverer) *MultiDeliverer {
	if log == nil {
		log = slog.Default()
	}
	return &MultiDeliverer{deliverers: deliverers, logger: log}
}

func (m *MultiDeliverer) Deliver(ctx context.Context, n Notification) error {
	for i, d := range m.deliverers {
		if err := d.Deliver(ctx, n); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "failed to deliver notification",
				slog.String("notification_id", n.ID),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
		}
	}
	return nil
}

// NoOpDeliverer leaves notifications in storage until they are listed.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(context.Context, Notification) error { return nil }

package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/idadental/registration/pkg/logger"
)

// Manager stores notifications first and then attempts live delivery.
type Manager struct {
	storage   Storage
	deliverer Deliverer
	logger    *slog.Logger
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithDeliverer(d Deliverer) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.deliverer = d
		}
	}
}

func NewManager(storage Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		storage:   storage,
		deliverer: NoOpDeliverer{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send persists n and delivers it best-effort. The stored copy is returned.
func (m *Manager) Send(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now()
	}

	if err := m.storage.Create(ctx, n); err != nil {
		return Notification{}, fmt.Errorf("failed to store notification: %w", err)
	}

	if err := m.deliverer.Deliver(ctx, n); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "failed to deliver notification, it stays stored",
			slog.String("notification_id", n.ID),
			logger.Error(err),
		)
	}
	return n, nil
}

// Drain returns the pending notifications of recipient, oldest first, and
// removes them. It backs flash messages on full page loads and toast patches.
func (m *Manager) Drain(ctx context.Context, recipient string) ([]Notification, error) {
	pending, err := m.storage.Take(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to take notifications: %w", err)
	}
	return pending, nil
}

// Forget removes everything stored for recipient.
func (m *Manager) Forget(ctx context.Context, recipient string) error {
	return m.storage.Delete(ctx, recipient)
}

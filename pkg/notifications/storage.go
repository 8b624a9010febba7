package notifications

import "context"

// Storage holds notifications per recipient until they are shown.
type Storage interface {
	Create(ctx context.Context, n Notification) error
	// Take removes and returns the pending notifications of recipient, oldest
	// first, in one step. Two concurrent calls never return the same notification.
	Take(ctx context.Context, recipient string) ([]Notification, error)
	Delete(ctx context.Context, recipient string) error
}

package registration

import "context"

// NotificationKind distinguishes success toasts from destructive ones.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindFailure NotificationKind = "failure"
)

// Notification is a user-facing message emitted once per submission outcome.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

var (
	defaultSuccessNotification = Notification{
		Kind:        KindSuccess,
		Title:       "Registration Successful!",
		Description: "Welcome to Indian Dental Association.",
	}
	defaultFailureNotification = Notification{
		Kind:        KindFailure,
		Title:       "Registration Failed",
		Description: "Please try again later.",
	}
)

// Notifier delivers submission outcomes to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) error { return nil }

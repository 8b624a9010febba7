package registration

import (
	"log/slog"
)

// Option configures a Form.
type Option func(*Form)

// WithNotifier sets the collaborator that shows success and failure notifications.
func WithNotifier(n Notifier) Option {
	return func(f *Form) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithObserver registers fn for every committed state transition.
// fn runs while the form is locked: it may call State or Control only.
func WithObserver(fn func(from, to State)) Option {
	return func(f *Form) {
		if fn != nil {
			f.observers = append(f.observers, fn)
		}
	}
}

// WithSuccessNotification overrides the message shown after a successful submission.
func WithSuccessNotification(title, description string) Option {
	return func(f *Form) {
		f.success = Notification{Kind: KindSuccess, Title: title, Description: description}
	}
}

// WithFailureNotification overrides the message shown after a failed submission.
func WithFailureNotification(title, description string) Option {
	return func(f *Form) {
		f.failure = Notification{Kind: KindFailure, Title: title, Description: description}
	}
}

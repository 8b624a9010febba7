package registration

import (
	"context"

	"github.com/idadental/registration/pkg/notifications"
	regform "github.com/idadental/registration/pkg/registration"
)

// toastNotifier stores submission outcomes as notifications addressed to one
// browser session. They are shown as toasts on the next render.
type toastNotifier struct {
	manager   *notifications.Manager
	recipient string
}

func (n toastNotifier) Notify(ctx context.Context, msg regform.Notification) error {
	typ := notifications.TypeSuccess
	if msg.Kind == regform.KindFailure {
		typ = notifications.TypeError
	}
	_, err := n.manager.Send(ctx, notifications.Notification{
		Recipient: n.recipient,
		Type:      typ,
		Title:     msg.Title,
		Message:   msg.Description,
	})
	return err
}

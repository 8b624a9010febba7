// Package notifications stores and delivers toast notifications per browser session.
//
// A Manager persists every notification through Storage before handing it to a
// Deliverer, so a toast that could not be pushed live (for example because the
// request was a plain form post) is still shown as a flash on the next page
// load via Drain. Drain removes what it returns.
//
//	mgr := notifications.NewManager(notifications.NewMemoryStorage())
//	_, _ = mgr.Send(ctx, notifications.Notification{
//		Recipient: sessionToken,
//		Type:      notifications.TypeSuccess,
//		Title:     "Saved",
//	})
//	flashes, _ := mgr.Drain(ctx, sessionToken)
package notifications

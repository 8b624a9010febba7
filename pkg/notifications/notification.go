package notifications

import "time"

// Type is the visual variant of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Notification is a toast addressed to one browser session.
type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

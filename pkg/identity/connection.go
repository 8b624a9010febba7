package identity

import "fmt"

// Connection selects which identity-provider connection the login redirect targets.
type Connection string

const (
	// ConnectionSocial lets the provider show its universal login (password and social).
	ConnectionSocial Connection = ""
	// ConnectionPhone goes straight to SMS one-time-password sign-in.
	ConnectionPhone Connection = PhoneConnection
)

// ParseConnection maps the public selector used in login links to a Connection.
func ParseConnection(s string) (Connection, error) {
	switch s {
	case "", "social", "password":
		return ConnectionSocial, nil
	case "phone", PhoneConnection:
		return ConnectionPhone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConnection, s)
	}
}

func (c Connection) String() string {
	if c == ConnectionSocial {
		return "social"
	}
	return string(c)
}

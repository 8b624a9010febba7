package logger

import "log/slog"

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// SessionID records a truncated session token under "session". Only the first
// eight characters are logged.
func SessionID(token string) slog.Attr {
	if token == "" {
		return slog.Attr{}
	}
	if len(token) > 8 {
		token = token[:8]
	}
	return slog.String("session", token)
}

// SubjectID records the identity-provider subject under "subject_id".
func SubjectID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subject_id", id)
}

// AuthMethod records how the user signed in under "auth_method".
func AuthMethod(method string) slog.Attr {
	if method == "" {
		return slog.Attr{}
	}
	return slog.String("auth_method", method)
}

// State records a lifecycle state under "state".
func State(state string) slog.Attr {
	return slog.String("state", state)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

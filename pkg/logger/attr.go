package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Username records the subject username under the key "username".
// If username is empty, it returns an empty Attr.
func Username(username string) slog.Attr {
	if username == "" {
		return slog.Attr{}
	}
	return slog.String("username", username)
}

// Endpoint records the handling endpoint under the key "endpoint".
func Endpoint(name string) slog.Attr {
	return slog.String("endpoint", name)
}

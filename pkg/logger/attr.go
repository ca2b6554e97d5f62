package logger

import "log/slog"

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting subsystem under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Core records the search core name under "core".
func Core(name string) slog.Attr {
	return slog.String("core", name)
}

// Operation records the search operation under "op".
func Operation(op string) slog.Attr {
	return slog.String("op", op)
}

// Duration records d under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// RequestID records the request correlation id under "request_id".
// An empty id yields an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

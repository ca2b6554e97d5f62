package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Sink receives every failure detected by the package before it is returned
// to the caller. Implementations decide whether to log, count or escalate.
type Sink interface {
	Report(ctx context.Context, kind Kind, err error)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, kind Kind, err error)

func (f SinkFunc) Report(ctx context.Context, kind Kind, err error) { f(ctx, kind, err) }

// NopSink discards reports.
type NopSink struct{}

func (NopSink) Report(context.Context, Kind, error) {}

// LogSink writes reports to log at error level.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink returns a Sink backed by log. A nil logger falls back to slog.Default.
func NewLogSink(log *slog.Logger) LogSink {
	if log == nil {
		log = slog.Default()
	}
	return LogSink{log: log.With(logger.Component("search"))}
}

func (s LogSink) Report(ctx context.Context, kind Kind, err error) {
	attrs := []any{slog.String("kind", string(kind)), logger.Error(err)}
	var se *Error
	if errors.As(err, &se) {
		attrs = append(attrs, logger.Core(se.Core), logger.Operation(se.Op))
	}
	s.log.ErrorContext(ctx, "search operation failed", attrs...)
}

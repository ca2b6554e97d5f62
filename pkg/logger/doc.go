// Package logger builds *slog.Logger instances for searchkit services and
// defines the attribute helpers used across the module so keys stay
// consistent in every log line.
//
// New applies Option values on top of production defaults (JSON, info level,
// stdout). The resulting handler is wrapped so ContextExtractor callbacks can
// inject request-scoped attributes, such as a request id, on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, cfg.Service),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "core optimized", logger.Core("products"), logger.Duration(d))
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally.
package logger

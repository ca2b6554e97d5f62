// Package httpserver runs an http.Handler with graceful shutdown, configurable
// timeouts and lifecycle logging through slog.
//
// Run binds the listener before returning control to the caller's hooks, so a
// bind failure is reported synchronously as ErrStart and Addr is valid from the
// first start hook onwards. Cancelling the context passed to Run drains open
// connections within the shutdown timeout. Signal handling is left to the
// caller, typically via signal.NotifyContext.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
//
// HealthCheckHandler serves a JSON liveness/readiness report from a list of
// named checks.
package httpserver

package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Check is a named readiness check.
type Check struct {
	Name string
	Run  func(context.Context) error
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness and readiness in one endpoint. With no
// checks it reports {"status":"alive"}. Otherwise every check runs against the
// request context; the response is 200 with status "ready" when all pass, or
// 503 with status "not_ready" and the failing checks' errors.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{Status: "alive"}
		code := http.StatusOK

		if len(checks) > 0 {
			report.Status = "ready"
			report.Checks = make(map[string]string, len(checks))
			for _, c := range checks {
				if err := c.Run(r.Context()); err != nil {
					log.WarnContext(r.Context(), "readiness check failed", slog.String("check", c.Name), logger.Error(err))
					report.Checks[c.Name] = err.Error()
					report.Status = "not_ready"
					code = http.StatusServiceUnavailable
					continue
				}
				report.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}

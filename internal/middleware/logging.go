package middleware

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/felixge/httpsnoop"
)

// RequestLogger logs one line per request with the status and duration
// captured by httpsnoop.
func RequestLogger(logger lager.Logger) func(http.Handler) http.Handler {
	logger = logger.Session("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			data := lager.Data{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   m.Code,
				"bytes":    m.Written,
				"duration": m.Duration.String(),
			}

			if m.Code >= http.StatusInternalServerError {
				logger.Info("request-failed", data)
				return
			}
			logger.Debug("request", data)
		})
	}
}

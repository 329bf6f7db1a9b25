package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/chunkscribe/logger"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger logs every request with method, path, status, response size
// and duration. Health and info probes are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := map[string]any{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             sw.status,
				"response_bytes":     sw.written,
				logger.FieldDuration: time.Since(start).Milliseconds(),
			}
			if r.ContentLength > 0 {
				fields[logger.FieldBytes] = r.ContentLength
			}
			logByStatus(log.WithContext(r.Context()), fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}

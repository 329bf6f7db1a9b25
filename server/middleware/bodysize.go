package middleware

import (
	"net/http"

	"github.com/kbukum/chunkscribe/errors"
)

// BodySizeLimit caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are rejected before the handler runs; others are cut
// off by http.MaxBytesReader while streaming.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, errors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

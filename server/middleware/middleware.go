// Package middleware holds the net/http middleware applied in front of the
// Gin engine. Running below Gin means every route, including ones Gin
// rejects, passes through recovery, request ids, body limits and logging.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/chunkscribe/errors"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError renders err in the same envelope the API handlers use.
func writeError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus)
	_ = json.NewEncoder(w).Encode(err.ToResponse())
}

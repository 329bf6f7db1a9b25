package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/chunkscribe/errors"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as an error envelope. AppErrors anywhere in
// the chain keep their status and code; context errors and body-limit
// errors are mapped; anything else is a 500.
func RespondWithError(c *gin.Context, err error) {
	c.JSON(statusAndBody(err))
}

func statusAndBody(err error) (int, errors.ErrorResponse) {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.HTTPStatus, appErr.ToResponse()
	}
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		e := errors.PayloadTooLarge(maxErr.Limit)
		return e.HTTPStatus, e.ToResponse()
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		e := errors.New(errors.ErrCodeTimeout, "Request timed out", http.StatusGatewayTimeout)
		return e.HTTPStatus, e.ToResponse()
	}
	if stderrors.Is(err, context.Canceled) {
		// 499 is the de facto code for a client that went away.
		e := errors.New(errors.ErrCodeServiceUnavailable, "Request cancelled", 499)
		return e.HTTPStatus, e.ToResponse()
	}
	e := errors.Internal(err)
	return e.HTTPStatus, e.ToResponse()
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

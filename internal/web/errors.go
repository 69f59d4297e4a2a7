package web

// errors.go turns handler errors into JSON responses.
//
// The flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, status), or statusFor(err) to pick one
//  3. core.MapError supplies the user-facing message, action and code
//  4. The technical error is logged with the request id for correlation

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/logging"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

var (
	errNoFile      = errors.New("no file provided")
	errRateLimited = errors.New("rate limit exceeded")
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing form.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logArgs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", logArgs...)
	} else {
		logger.Warn("request error", logArgs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile),
		errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, core.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, workbook.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoErrorsToMark):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyValidations):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

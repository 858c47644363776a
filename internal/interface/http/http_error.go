package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
	apperrors "github.com/yanqian/mood-engine/pkg/errors"
)

// HTTPError is the envelope rendered for a failed request.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError builds an HTTPError.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// statusByCode maps domain error codes to response statuses.
var statusByCode = map[string]int{
	"invalid_input":              http.StatusBadRequest,
	"preset_not_found":           http.StatusNotFound,
	session.CodeInvalidSelection: http.StatusUnprocessableEntity,
	session.CodeInFlight:         http.StatusConflict,
}

// asHTTPError converts err into the response envelope. Analysis failures only
// ever expose the generic failure message; the cause stays in the logs.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	code := apperrors.CodeOf(err)
	if code == session.CodeAnalysisFailed || mood.IsServiceError(err) {
		return NewHTTPError(http.StatusBadGateway, session.CodeAnalysisFailed, session.FailureMessage, err)
	}
	if status, ok := statusByCode[code]; ok {
		return NewHTTPError(status, code, apperrors.MessageOf(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

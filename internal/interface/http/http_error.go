package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/weather-helloworld/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromAppError(err)
}

// fromAppError maps domain error codes onto statuses. Messages of server-side
// failures are replaced so provider and database details stay in the logs.
func fromAppError(err error) *HTTPError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "request failed", err)
	}
	switch appErr.Code {
	case "invalid_input":
		return NewHTTPError(http.StatusBadRequest, appErr.Code, appErr.Message, err)
	case "invalid_credentials", "invalid_token":
		return NewHTTPError(http.StatusUnauthorized, appErr.Code, appErr.Message, err)
	case "email_exists", "favorite_exists":
		return NewHTTPError(http.StatusConflict, appErr.Code, appErr.Message, err)
	case "city_not_found":
		return NewHTTPError(http.StatusNotFound, appErr.Code, "City not found", err)
	case "user_not_found", "favorite_not_found":
		return NewHTTPError(http.StatusNotFound, appErr.Code, appErr.Message, err)
	case "upstream_timeout":
		return NewHTTPError(http.StatusGatewayTimeout, appErr.Code, "Weather service timeout", err)
	case "upstream_unavailable":
		return NewHTTPError(http.StatusServiceUnavailable, appErr.Code, "Weather service unavailable", err)
	default:
		return NewHTTPError(http.StatusInternalServerError, appErr.Code, "request failed", err)
	}
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"raffle-draw-backend/internal/common/errors"
	"raffle-draw-backend/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON envelope returned for failed requests.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
}

// ErrorHandler recovers panics and renders any AppError attached to the
// context by a handler.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestID := GetRequestID(c)
				logger.Error().
					Str("request_id", requestID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("stack", string(debug.Stack())).
					Msgf("Panic recovered: %v", recovered)

				appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
					WithDetail("panic", fmt.Sprintf("%v", recovered))
				AbortWithError(c, appErr)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
			}
			AbortWithError(c, appErr)
		}
	}
}

// AbortWithError renders an AppError as JSON and aborts the request.
func AbortWithError(c *gin.Context, appErr *errors.AppError) {
	requestID := GetRequestID(c)
	appErr.WithRequestID(requestID)

	status := httpStatus(appErr)
	if status >= http.StatusInternalServerError {
		logger.Error().
			Str("request_id", requestID).
			Str("code", string(appErr.Code)).
			Err(appErr).
			Msg("Request failed")
	} else {
		logger.Warn().
			Str("request_id", requestID).
			Str("code", string(appErr.Code)).
			Msg(appErr.Message)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
	})
}

func httpStatus(appErr *errors.AppError) int {
	switch {
	case appErr.IsValidation():
		return http.StatusBadRequest
	case appErr.IsNotFound():
		return http.StatusNotFound
	case appErr.IsConflict():
		return http.StatusConflict
	case appErr.Code == errors.ErrCodeForbidden:
		return http.StatusForbidden
	case appErr.Code == errors.ErrCodeVerificationInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

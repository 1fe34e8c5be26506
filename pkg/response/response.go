package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/pkg/apperror"
)

const (
	// Context keys set by the middleware package.
	KeyLoginID   = "login_id"
	KeyRaceID    = "race_id"
	KeyRequestID = "request_id"
)

// ErrorBody is the error envelope returned to clients.
type ErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetLoginID retrieves the authenticated login ID from the context
func GetLoginID(c *gin.Context) (uint, error) {
	v, exists := c.Get(KeyLoginID)
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, apperror.ErrUnauthorized
	}

	return id, nil
}

// GetRaceID retrieves the race selected for the request by the race scope middleware.
func GetRaceID(c *gin.Context) (uint, error) {
	v, exists := c.Get(KeyRaceID)
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, apperror.ErrUnauthorized
	}

	return id, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	status := apperror.MapErrorToStatus(err)
	body := ErrorBody{
		Code:    apperror.MapErrorToCode(err),
		Message: err.Error(),
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.Details = appErr.Details
	}

	// Log internal errors, clients only get a generic message
	if status == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.FullPath(), err)
		body.Message = apperror.ErrInternal.Error()
		if errors.Is(err, apperror.ErrTransaction) {
			body.Message = apperror.ErrTransaction.Error()
		}
		body.Details = nil
	}

	c.AbortWithStatusJSON(status, body)
}

// AbortUnauthorized rejects the request with the 401 envelope.
func AbortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{
		Code:    apperror.CodeAuthRequired,
		Message: message,
	})
}

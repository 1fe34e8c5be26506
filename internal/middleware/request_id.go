package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"racego.com/raceapi/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(response.KeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

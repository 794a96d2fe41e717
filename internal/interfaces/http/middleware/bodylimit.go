package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
)

// DefaultMaxBodyBytes is enough for every JSON command the API accepts
const DefaultMaxBodyBytes int64 = 1 << 20

// BodyLimit rejects requests whose declared body exceeds maxBytes and
// caps streamed bodies at the same size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

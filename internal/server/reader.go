package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ReaderHeader carries the reader identity of API clients.
	ReaderHeader = "X-Reader-ID"

	ContextKeyReaderID = "reader_id"

	maxReaderIDLength = 64
)

// ReaderMiddleware resolves who is reading: the X-Reader-ID header first,
// then the anonymous ID of the browser session, minting one when the session
// has none. Requests without either are rejected with 401.
func ReaderMiddleware(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		readerID := strings.TrimSpace(c.GetHeader(ReaderHeader))
		if len(readerID) > maxReaderIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "reader ID too long"})
			return
		}

		if readerID == "" && sessions != nil {
			ctx := c.Request.Context()
			readerID = sessions.GetString(ctx, SessionKeyReaderID)
			if readerID == "" {
				readerID = uuid.NewString()
				sessions.Put(ctx, SessionKeyReaderID, readerID)
			}
		}

		if readerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "reader identity required"})
			return
		}

		c.Set(ContextKeyReaderID, readerID)
		c.Next()
	}
}

// GetReaderID returns the reader resolved by ReaderMiddleware.
func GetReaderID(c *gin.Context) string {
	return c.GetString(ContextKeyReaderID)
}

package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub.app/server/common/id"
	"teamhub.app/server/common/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id or mints one, and puts it on
// the response and into the log fields.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = strconv.FormatInt(id.New(), 10)
		}
		c.Header(RequestIDHeader, rid)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: &rid})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

package middlewares

import "github.com/gin-gonic/gin"

// abortJSON writes the same error envelope the handlers use. Middlewares
// cannot import handlers without a cycle.
func abortJSON(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}

	if v, ok := c.Get(CtxRequestID); ok {
		if id, ok := v.(string); ok && id != "" {
			body["requestId"] = id
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

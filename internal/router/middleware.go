package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const ownerKey = "ownerKey"

// Identity pulls the authenticated identity the upstream auth layer put in
// X-User-Email. The owner key used for cart lookups only ever comes from
// here, never from the request body or path.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Missing authenticated identity",
			})
			return
		}

		c.Set(ownerKey, email)
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)),
		)
	}
}

package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qkartio/cart-service/internal/apperr"
)

func statusFromCode(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidRequest:
		return http.StatusBadRequest
	case apperr.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an error kind to an HTTP status. Internal causes are
// logged but never echoed to the client.
func (h *Handlers) writeError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := statusFromCode(code)

	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Any("err", err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"code":    string(code),
		"message": apperr.MessageOf(err),
	})
}

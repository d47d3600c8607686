package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-api/internal/model"
)

// handleErrors renders the last error a handler attached with c.Error.
// Kinds map to status codes; anything without a kind is logged and
// answered with an opaque 500.
func handleErrors(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		kind := model.KindOf(err)

		message := "internal server error"
		var appErr *model.Error
		if kind != model.KindUnhandled && errors.As(err, &appErr) {
			message = appErr.Message
		}

		status := statusFor(kind)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"code", kind.String(),
				"error", err,
			)
		}

		c.AbortWithStatusJSON(status, ErrorResponse{
			Error: message,
			Code:  kind.String(),
		})
	}
}

func statusFor(kind model.Kind) int {
	switch kind {
	case model.KindInvalidRequest:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

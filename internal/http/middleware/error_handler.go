package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/pkg/view"
)

// Fail records err for ErrorHandler and stops the chain. Guards and handlers
// never write error bodies themselves.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler is the single place where failures become HTTP responses.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		switch {
		case status >= 500:
			level = slog.LevelError
		case apperr.IsKind(err, apperr.NotFound):
			// guard misses are routine
			level = slog.LevelInfo
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		body := view.ErrorResponse{
			Message:   apperr.PublicMessage(err),
			RequestID: rid,
		}
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			body.Fields = ae.Fields
		}
		c.AbortWithStatusJSON(status, body)
	}
}

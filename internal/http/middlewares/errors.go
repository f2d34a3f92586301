package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error a handler attached with ctx.Error into a
// response. Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}

		err := ctx.Errors.Last().Err

		var vErr *domain.ValidationError

		switch {
		case errors.As(err, &vErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		case errors.Is(err, domain.ErrMalformedID):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMalformedID.Error()})
		case errors.Is(err, domain.ErrInvalidToken):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidToken.Error()})
		case errors.Is(err, domain.ErrTokenMissing):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrTokenMissing.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, blog.ErrNotFound), errors.Is(err, user.ErrNotFound):
			ctx.Status(http.StatusNotFound)
			ctx.Writer.WriteHeaderNow()
		default:
			slog.Default().ErrorContext(ctx.Request.Context(), "unhandled_error",
				"method", ctx.Request.Method,
				"path", ctx.Request.URL.Path,
				"err", err,
			)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
	}
}

// UnknownEndpoint answers requests no route matched.
func UnknownEndpoint(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown endpoint"})
}

package middlewares

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"

	// bodies longer than this are truncated in the request log
	maxLoggedBody = 2048
)

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Get the request header
		id := ctx.GetHeader(requestIDHeader)

		// if there
		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Set(CtxRequestID, id)
		ctx.Request = ctx.Request.WithContext(observability.WithRequestID(ctx.Request.Context(), id))

		ctx.Next()
	}
}

// RequestLogger logs method, path, body, status and latency of each request.
// The request id comes from the request context. The body is peeked and then
// put back for the handlers.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		path := ctx.Request.URL.Path
		method := ctx.Request.Method
		body := peekBody(ctx)

		ctx.Next()

		lat := time.Since(start)
		status := ctx.Writer.Status()

		slog.Default().InfoContext(ctx.Request.Context(), "http_request",
			"method", method,
			"path", path,
			"body", body,
			"status", status,
			"latency_ms", lat.Milliseconds(),
		)
	}
}

func peekBody(ctx *gin.Context) string {
	if ctx.Request.Body == nil {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxLoggedBody))
	if err != nil {
		return ""
	}

	ctx.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(buf), ctx.Request.Body), ctx.Request.Body}

	return redactBody(buf)
}

// redactBody masks password fields of a JSON object body.
func redactBody(buf []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(buf, &fields); err != nil {
		return string(buf)
	}

	if _, ok := fields["password"]; !ok {
		return string(buf)
	}

	fields["password"] = "[redacted]"

	out, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(out)
}

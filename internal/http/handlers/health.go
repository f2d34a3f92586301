package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping     func() error
	draining func() bool
}

// create a new instance of the health handler; either func may be nil
func NewHealthHandler(ping func() error, draining func() bool) *HealthHandler {
	return &HealthHandler{ping: ping, draining: draining}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports whether the backing store answers and the server is not
// shutting down.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.draining != nil && h.draining() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "shutting down"})
		return
	}

	if h.ping != nil {
		if err := h.ping(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "store unreachable"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

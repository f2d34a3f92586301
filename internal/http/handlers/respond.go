package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Error:   message,
		Details: details,
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

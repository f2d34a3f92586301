package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, req user.LoginRequest) (user.LoginResponse, error)
}

type LoginHandler struct {
	auth Authenticator
}

func NewLoginHandler(auth Authenticator) *LoginHandler {
	return &LoginHandler{auth: auth}
}

func (h *LoginHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	res, err := h.auth.Login(cctx, req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

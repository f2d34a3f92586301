package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersService interface {
	Create(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	List(ctx context.Context) ([]user.WithBlogs, error)
}

type UsersHandler struct {
	svc UsersService
}

func NewUsersHandler(svc UsersService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.svc.Create(cctx, req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, created)
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	users, err := h.svc.List(cctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, users)
}

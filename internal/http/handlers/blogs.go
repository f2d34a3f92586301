package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/http/middlewares"
	"github.com/geocoder89/bloglist/internal/stats"
	"github.com/gin-gonic/gin"
)

const requestTimeout = 3 * time.Second

type BlogsService interface {
	Authenticate(token string) (string, error)
	List(ctx context.Context) ([]blog.WithOwner, error)
	Stats(ctx context.Context) (stats.Summary, error)
	Create(ctx context.Context, token string, req blog.CreateBlogRequest) (blog.Blog, error)
	Delete(ctx context.Context, token, id string) error
	Update(ctx context.Context, id string, req blog.UpdateBlogRequest) (*blog.Blog, error)
}

type BlogsHandler struct {
	svc BlogsService
}

func NewBlogsHandler(svc BlogsService) *BlogsHandler {
	return &BlogsHandler{svc: svc}
}

func (h *BlogsHandler) ListBlogs(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	blogs, err := h.svc.List(cctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, blogs)
}

func (h *BlogsHandler) BlogStats(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.svc.Stats(cctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// CreateBlog checks the token before it looks at the body, so an anonymous
// request is answered with 401 whatever it carries.
func (h *BlogsHandler) CreateBlog(ctx *gin.Context) {
	token := middlewares.TokenFromContext(ctx)

	if _, err := h.svc.Authenticate(token); err != nil {
		_ = ctx.Error(err)
		return
	}

	var req blog.CreateBlogRequest

	if !BindOptionalJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.svc.Create(cctx, token, req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, created)
}

func (h *BlogsHandler) DeleteBlog(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(cctx, middlewares.TokenFromContext(ctx), ctx.Param("id")); err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UpdateBlog answers with the updated blog, or null when the id is unknown.
// An empty body clears the fields.
func (h *BlogsHandler) UpdateBlog(ctx *gin.Context) {
	var req blog.UpdateBlogRequest

	if !BindOptionalJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	updated, err := h.svc.Update(cctx, ctx.Param("id"), req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

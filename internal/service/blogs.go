package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/bloglist/internal/cache"
	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/geocoder89/bloglist/internal/stats"
)

type BlogService struct {
	blogs  BlogRepository
	users  UserRepository
	tokens TokenManager
	cache  cache.Store
	prom   *observability.Prom
}

// NewBlogService wires the blog operations. store and prom may be nil.
func NewBlogService(blogs BlogRepository, users UserRepository, tokens TokenManager, store cache.Store, prom *observability.Prom) *BlogService {
	return &BlogService{
		blogs:  blogs,
		users:  users,
		tokens: tokens,
		cache:  store,
		prom:   prom,
	}
}

// List returns every blog with its owner inlined.
func (s *BlogService) List(ctx context.Context) ([]blog.WithOwner, error) {
	ctx, span := observability.StartSpan(ctx, "BlogService.List")
	defer span.End()

	return readThrough(ctx, s.cache, s.prom, "blogs", cache.BlogsListKey, s.blogs.ListWithOwners)
}

// Stats summarises all stored blogs.
func (s *BlogService) Stats(ctx context.Context) (stats.Summary, error) {
	ctx, span := observability.StartSpan(ctx, "BlogService.Stats")
	defer span.End()

	return readThrough(ctx, s.cache, s.prom, "stats", cache.BlogsStatsKey, func(ctx context.Context) (stats.Summary, error) {
		all, err := s.blogs.List(ctx)
		if err != nil {
			return stats.Summary{}, err
		}
		return stats.Summarize(all), nil
	})
}

// Create stores a blog owned by the token's user and appends it to that
// user's blogs. The two writes are not atomic.
func (s *BlogService) Create(ctx context.Context, token string, req blog.CreateBlogRequest) (blog.Blog, error) {
	ctx, span := observability.StartSpan(ctx, "BlogService.Create")
	defer span.End()

	userID, err := s.Authenticate(token)
	if err != nil {
		return blog.Blog{}, err
	}

	if !req.HasRequired() {
		return blog.Blog{}, domain.ErrNotFound
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, domain.ErrMalformedID) {
			return blog.Blog{}, domain.ErrTokenMissing
		}
		return blog.Blog{}, fmt.Errorf("load token user: %w", err)
	}

	saved, err := s.blogs.Create(ctx, blog.NewFromCreateRequest(req, owner.ID))
	if err != nil {
		return blog.Blog{}, fmt.Errorf("create blog: %w", err)
	}

	// the blog is visible from here on, even if the user write below fails
	invalidate(ctx, s.cache, cache.BlogsListKey, cache.BlogsStatsKey)

	if err := s.users.AppendBlog(ctx, owner.ID, saved.ID); err != nil {
		return blog.Blog{}, fmt.Errorf("append blog to user: %w", err)
	}

	invalidate(ctx, s.cache, cache.UsersListKey)

	return saved, nil
}

// Delete removes a blog when the token's user owns it. Any other outcome for
// an existing id, including a foreign owner, is reported as not found.
func (s *BlogService) Delete(ctx context.Context, token, id string) error {
	ctx, span := observability.StartSpan(ctx, "BlogService.Delete")
	defer span.End()

	userID, err := s.Authenticate(token)
	if err != nil {
		return err
	}

	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !b.OwnedBy(userID) {
		return blog.ErrNotFound
	}

	if err := s.blogs.Delete(ctx, b.ID); err != nil {
		return err
	}

	invalidate(ctx, s.cache, cache.BlogsListKey, cache.BlogsStatsKey, cache.UsersListKey)

	return nil
}

// Update overwrites the writable fields of a blog. A missing blog yields
// (nil, nil) so the caller can answer with a null body.
func (s *BlogService) Update(ctx context.Context, id string, req blog.UpdateBlogRequest) (*blog.Blog, error) {
	ctx, span := observability.StartSpan(ctx, "BlogService.Update")
	defer span.End()

	updated, err := s.blogs.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	invalidate(ctx, s.cache, cache.BlogsListKey, cache.BlogsStatsKey, cache.UsersListKey)

	return &updated, nil
}

// Authenticate verifies a bearer token and returns the user id it carries.
// It does not check that the user still exists.
func (s *BlogService) Authenticate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.ErrTokenMissing
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	if claims.ID == "" {
		return "", domain.ErrTokenMissing
	}

	return claims.ID, nil
}

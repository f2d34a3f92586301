package service

import (
	"context"

	"github.com/geocoder89/bloglist/internal/auth"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
)

type BlogRepository interface {
	Create(ctx context.Context, b blog.Blog) (blog.Blog, error)
	GetByID(ctx context.Context, id string) (blog.Blog, error)
	List(ctx context.Context) ([]blog.Blog, error)
	ListWithOwners(ctx context.Context) ([]blog.WithOwner, error)
	Update(ctx context.Context, id string, f blog.Fields) (blog.Blog, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	ListWithBlogs(ctx context.Context) ([]user.WithBlogs, error)
	AppendBlog(ctx context.Context, id, blogID string) error
}

type TokenManager interface {
	Issue(username, id string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) error
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/bloglist/internal/cache"
	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/geocoder89/bloglist/internal/observability"
)

type UserService struct {
	users  UserRepository
	hasher PasswordHasher
	cache  cache.Store
	prom   *observability.Prom
}

func NewUserService(users UserRepository, hasher PasswordHasher, store cache.Store, prom *observability.Prom) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		cache:  store,
		prom:   prom,
	}
}

// Create hashes the password and stores a user with no blogs. The returned
// value never carries the hash in its JSON form.
func (s *UserService) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	ctx, span := observability.StartSpan(ctx, "UserService.Create")
	defer span.End()

	if req.Password == "" {
		return user.User{}, domain.NewValidationError("User").
			Add("password", "required", "Path `password` is required.")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		ID:           domain.NewID(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Blogs:        []string{},
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return user.User{}, err
	}

	invalidate(ctx, s.cache, cache.UsersListKey)

	return created, nil
}

// List returns every user with their blog titles inlined.
func (s *UserService) List(ctx context.Context) ([]user.WithBlogs, error) {
	ctx, span := observability.StartSpan(ctx, "UserService.List")
	defer span.End()

	return readThrough(ctx, s.cache, s.prom, "users", cache.UsersListKey, s.users.ListWithBlogs)
}

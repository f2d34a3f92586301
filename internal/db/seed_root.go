package db

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/bloglist/internal/config"
	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/geocoder89/bloglist/internal/security"
)

// UserStore is the slice of the user repository the seeder needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// EnsureRootUser creates the configured bootstrap account if it does not exist yet.
func EnsureRootUser(ctx context.Context, users UserStore, cfg config.Config) error {
	if cfg.RootUsername == "" || cfg.RootPassword == "" {
		return nil
	}

	// check if the user exists
	_, err := users.GetByUsername(ctx, cfg.RootUsername)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.RootPassword)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, user.User{
		ID:           domain.NewID(),
		Username:     cfg.RootUsername,
		Name:         cfg.RootName,
		PasswordHash: hash,
		Blogs:        []string{},
		CreatedAt:    time.Now().UTC(),
	})

	return err
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/geocoder89/bloglist/internal/observability"
)

type LoginService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenManager
}

func NewLoginService(users UserRepository, hasher PasswordHasher, tokens TokenManager) *LoginService {
	return &LoginService{users: users, hasher: hasher, tokens: tokens}
}

// Login exchanges a username and password for a bearer token. An unknown user
// and a wrong password fail the same way.
func (s *LoginService) Login(ctx context.Context, req user.LoginRequest) (user.LoginResponse, error) {
	ctx, span := observability.StartSpan(ctx, "LoginService.Login")
	defer span.End()

	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return user.LoginResponse{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.hasher.Check(u.PasswordHash, req.Password); err != nil {
		return user.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Username, u.ID)
	if err != nil {
		return user.LoginResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return user.LoginResponse{Token: token, Username: u.Username, Name: u.Name}, nil
}

package user

import (
	"errors"
	"time"

	"github.com/geocoder89/bloglist/internal/domain/blog"
)

var ErrNotFound = errors.New("user not found")

const (
	MinUsernameLength     = 3
	MinPasswordHashLength = 3
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Blogs        []string  `json:"blogs"`
	CreatedAt    time.Time `json:"-"`
}

// WithBlogs is a user whose blogs list has been populated with titles.
type WithBlogs struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Name     string       `json:"name,omitempty"`
	Blogs    []blog.Title `json:"blogs"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

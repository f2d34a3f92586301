package memory

import (
	"slices"
	"sync"

	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
)

// Store keeps users and blogs in process memory, in insertion order. It backs
// the API when no database is configured and the handler tests.
type Store struct {
	mu sync.RWMutex

	users     map[string]user.User
	userOrder []string

	blogs     map[string]blog.Blog
	blogOrder []string
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]user.User),
		blogs: make(map[string]blog.Blog),
	}
}

func (s *Store) Blogs() *BlogsRepo {
	return &BlogsRepo{s: s}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	s.users = make(map[string]user.User)
	s.userOrder = nil
	s.blogs = make(map[string]blog.Blog)
	s.blogOrder = nil
	s.mu.Unlock()
}

func (s *Store) Ping() error {
	return nil
}

func cloneUser(u user.User) user.User {
	u.Blogs = slices.Clone(u.Blogs)
	if u.Blogs == nil {
		u.Blogs = []string{}
	}
	return u
}

func cloneBlog(b blog.Blog) blog.Blog {
	if b.UserID != nil {
		owner := *b.UserID
		b.UserID = &owner
	}
	return b
}

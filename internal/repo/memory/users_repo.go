package memory

import (
	"context"
	"slices"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

// Create validates and stores a user. A taken username is a validation error.
func (r *UsersRepo) Create(_ context.Context, u user.User) (user.User, error) {
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	if u.ID == "" {
		u.ID = domain.NewID()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return user.User{}, user.DuplicateUsername(u.Username)
		}
	}

	u = cloneUser(u)
	r.s.users[u.ID] = u
	r.s.userOrder = append(r.s.userOrder, u.ID)

	return cloneUser(u), nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return user.User{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return cloneUser(u), nil
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; u.Username == username {
			return cloneUser(u), nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// ListWithBlogs returns every user with their blogs projected to id and title.
// Ids of blogs that no longer exist are skipped.
func (r *UsersRepo) ListWithBlogs(_ context.Context) ([]user.WithBlogs, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]user.WithBlogs, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		u := r.s.users[id]

		titles := make([]blog.Title, 0, len(u.Blogs))
		for _, blogID := range u.Blogs {
			if b, ok := r.s.blogs[blogID]; ok {
				titles = append(titles, blog.Title{ID: b.ID, Title: b.Title})
			}
		}

		out = append(out, user.WithBlogs{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Blogs:    titles,
		})
	}

	return out, nil
}

// AppendBlog adds a blog id to the user's list of authored blogs.
func (r *UsersRepo) AppendBlog(_ context.Context, id, blogID string) error {
	id, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}

	u.Blogs = append(slices.Clone(u.Blogs), blogID)
	r.s.users[id] = u

	return nil
}

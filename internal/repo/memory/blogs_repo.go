package memory

import (
	"context"
	"slices"
	"time"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
)

type BlogsRepo struct {
	s *Store
}

func (r *BlogsRepo) Create(_ context.Context, b blog.Blog) (blog.Blog, error) {
	if b.ID == "" {
		b.ID = domain.NewID()
	}

	r.s.mu.Lock()
	r.s.blogs[b.ID] = cloneBlog(b)
	r.s.blogOrder = append(r.s.blogOrder, b.ID)
	r.s.mu.Unlock()

	return b, nil
}

func (r *BlogsRepo) GetByID(_ context.Context, id string) (blog.Blog, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return blog.Blog{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.blogs[id]
	if !ok {
		return blog.Blog{}, blog.ErrNotFound
	}

	return cloneBlog(b), nil
}

func (r *BlogsRepo) List(_ context.Context) ([]blog.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]blog.Blog, 0, len(r.s.blogOrder))
	for _, id := range r.s.blogOrder {
		out = append(out, cloneBlog(r.s.blogs[id]))
	}

	return out, nil
}

// ListWithOwners returns every blog with its owner projected to id, username and name.
func (r *BlogsRepo) ListWithOwners(_ context.Context) ([]blog.WithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]blog.WithOwner, 0, len(r.s.blogOrder))
	for _, id := range r.s.blogOrder {
		b := r.s.blogs[id]

		item := blog.WithOwner{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			URL:    b.URL,
			Likes:  b.Likes,
		}

		if b.UserID != nil {
			if u, ok := r.s.users[*b.UserID]; ok {
				item.User = &blog.Owner{ID: u.ID, Username: u.Username, Name: u.Name}
			}
		}

		out = append(out, item)
	}

	return out, nil
}

func (r *BlogsRepo) Update(_ context.Context, id string, f blog.Fields) (blog.Blog, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return blog.Blog{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.blogs[id]
	if !ok {
		return blog.Blog{}, blog.ErrNotFound
	}

	b.Title = f.Title
	b.Author = f.Author
	b.URL = f.URL
	b.Likes = f.LikesOrZero()
	b.UpdatedAt = time.Now().UTC()

	r.s.blogs[id] = b

	return cloneBlog(b), nil
}

func (r *BlogsRepo) Delete(_ context.Context, id string) error {
	id, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.blogs[id]; !ok {
		return blog.ErrNotFound
	}

	delete(r.s.blogs, id)
	r.s.blogOrder = slices.DeleteFunc(r.s.blogOrder, func(v string) bool { return v == id })

	return nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogsRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewBlogsRepo(pool *pgxpool.Pool, prom *observability.Prom) *BlogsRepo {
	return &BlogsRepo{
		pool:     pool,
		observer: observer{prom: prom},
	}
}

func (r *BlogsRepo) Create(ctx context.Context, b blog.Blog) (blog.Blog, error) {
	if b.ID == "" {
		b.ID = domain.NewID()
	}

	err := r.observe("blogs.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID, b.Title, b.Author, b.URL, b.Likes, b.UserID, b.CreatedAt, b.UpdatedAt)
		return err
	})

	if err != nil {
		return blog.Blog{}, err
	}

	return b, nil
}

func (r *BlogsRepo) GetByID(ctx context.Context, id string) (blog.Blog, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return blog.Blog{}, err
	}

	var b blog.Blog

	err = r.observe("blogs.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, author, url, likes, user_id, created_at, updated_at
			FROM blogs
			WHERE id = $1`, id,
		).Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Blog{}, blog.ErrNotFound
		}
		return blog.Blog{}, err
	}

	return b, nil
}

func (r *BlogsRepo) List(ctx context.Context) ([]blog.Blog, error) {
	out := make([]blog.Blog, 0)

	err := r.observe("blogs.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, title, author, url, likes, user_id, created_at, updated_at
			FROM blogs
			ORDER BY seq ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b blog.Blog
			if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
				return err
			}
			out = append(out, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListWithOwners returns every blog with its owner projected to id, username and name.
func (r *BlogsRepo) ListWithOwners(ctx context.Context) ([]blog.WithOwner, error) {
	out := make([]blog.WithOwner, 0)

	err := r.observe("blogs.list_with_owners", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT b.id, b.title, b.author, b.url, b.likes, u.id, u.username, u.name
			FROM blogs b
			LEFT JOIN users u ON u.id = b.user_id
			ORDER BY b.seq ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				item                    blog.WithOwner
				ownerID, username, name *string
			)

			if err := rows.Scan(&item.ID, &item.Title, &item.Author, &item.URL, &item.Likes, &ownerID, &username, &name); err != nil {
				return err
			}

			if ownerID != nil {
				item.User = &blog.Owner{ID: *ownerID, Username: deref(username), Name: deref(name)}
			}

			out = append(out, item)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *BlogsRepo) Update(ctx context.Context, id string, f blog.Fields) (blog.Blog, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return blog.Blog{}, err
	}

	var b blog.Blog

	err = r.observe("blogs.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE blogs
				SET title = $2,
					author = $3,
					url = $4,
					likes = $5,
					updated_at = NOW()
			WHERE id = $1
			RETURNING id, title, author, url, likes, user_id, created_at, updated_at`,
			id, f.Title, f.Author, f.URL, f.LikesOrZero(),
		).Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Blog{}, blog.ErrNotFound
		}
		return blog.Blog{}, err
	}

	return b, nil
}

func (r *BlogsRepo) Delete(ctx context.Context, id string) error {
	id, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	var affected int64

	err = r.observe("blogs.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return blog.ErrNotFound
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

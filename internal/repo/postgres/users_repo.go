package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
	"github.com/geocoder89/bloglist/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool:     pool,
		observer: observer{prom: prom},
	}
}

// Create validates and inserts a user. The unique constraint on username is
// reported as a validation error.
func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	if u.ID == "" {
		u.ID = domain.NewID()
	}
	if u.Blogs == nil {
		u.Blogs = []string{}
	}

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (id, username, name, password_hash, blog_ids, created_at)
			VALUES ($1, $2, $3, $4, $5::text[]::uuid[], $6)
			RETURNING created_at`,
			u.ID, u.Username, u.Name, u.PasswordHash, u.Blogs, u.CreatedAt,
		).Scan(&u.CreatedAt)
	})

	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return user.User{}, user.DuplicateUsername(u.Username)
		case IsCheckViolation(err):
			return user.User{}, domain.NewValidationError("User").Add("username", "check", err.Error())
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return user.User{}, err
	}

	return r.getOne(ctx, "users.get_by_id", `WHERE id = $1`, id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_username", `WHERE username = $1`, username)
}

func (r *UsersRepo) getOne(ctx context.Context, op, where string, arg any) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, username, name, password_hash, blog_ids::text[], created_at
			FROM users `+where, arg,
		).Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Blogs, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// ListWithBlogs returns every user with their blogs projected to id and title.
// Ids of blogs that no longer exist are skipped.
func (r *UsersRepo) ListWithBlogs(ctx context.Context) ([]user.WithBlogs, error) {
	type row struct {
		u       user.WithBlogs
		blogIDs []string
	}

	rowsOut := make([]row, 0)
	allIDs := make([]string, 0)

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, username, name, blog_ids::text[]
			FROM users
			ORDER BY seq ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rw row
			if err := rows.Scan(&rw.u.ID, &rw.u.Username, &rw.u.Name, &rw.blogIDs); err != nil {
				return err
			}
			allIDs = append(allIDs, rw.blogIDs...)
			rowsOut = append(rowsOut, rw)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(allIDs))

	if len(allIDs) > 0 {
		err = r.observe("users.list.populate_blogs", func() error {
			rows, err := r.pool.Query(ctx,
				`SELECT id, title FROM blogs WHERE id = ANY($1::text[]::uuid[])`, allIDs)
			if err != nil {
				return err
			}
			defer rows.Close()

			for rows.Next() {
				var id, title string
				if err := rows.Scan(&id, &title); err != nil {
					return err
				}
				titles[id] = title
			}

			return rows.Err()
		})

		if err != nil {
			return nil, err
		}
	}

	out := make([]user.WithBlogs, 0, len(rowsOut))
	for _, rw := range rowsOut {
		rw.u.Blogs = make([]blog.Title, 0, len(rw.blogIDs))
		for _, id := range rw.blogIDs {
			if title, ok := titles[id]; ok {
				rw.u.Blogs = append(rw.u.Blogs, blog.Title{ID: id, Title: title})
			}
		}
		out = append(out, rw.u)
	}

	return out, nil
}

// AppendBlog adds a blog id to the user's list of authored blogs in a single
// statement, so concurrent appends for one user do not overwrite each other.
func (r *UsersRepo) AppendBlog(ctx context.Context, id, blogID string) error {
	id, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	blogID, err = domain.ParseID(blogID)
	if err != nil {
		return err
	}

	var affected int64

	err = r.observe("users.append_blog", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET blog_ids = array_append(blog_ids, $2::uuid) WHERE id = $1`, id, blogID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}

package blog

import (
	"time"

	"github.com/geocoder89/bloglist/internal/domain"
)

func NewFromCreateRequest(req CreateBlogRequest, userID string) Blog {
	now := time.Now().UTC()
	owner := userID

	return Blog{
		ID:        domain.NewID(),
		Title:     req.Title,
		Author:    req.Author,
		URL:       req.URL,
		Likes:     req.LikesOrZero(),
		UserID:    &owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy compares the blog's owner with a user id as strings.
func (b Blog) OwnedBy(userID string) bool {
	return b.UserID != nil && *b.UserID == userID
}

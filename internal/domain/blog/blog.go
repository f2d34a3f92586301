package blog

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("blog not found")

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	UserID    *string   `json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Owner is the projection of a user inlined into a blog listing.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// WithOwner is a blog whose user reference has been populated.
type WithOwner struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   *Owner `json:"user"`
}

// Title is the projection of a blog inlined into a user listing.
type Title struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Fields is the writable part of a blog. Likes is a pointer so an omitted or
// null value can be told apart while decoding; LikesOrZero applies the default.
type Fields struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// CreateBlogRequest carries no binding tags: a missing title or url is reported
// by the service as not found, not as a bad request.
type CreateBlogRequest = Fields

type UpdateBlogRequest = Fields

// LikesOrZero treats an omitted, null or zero likes count as 0.
func (f Fields) LikesOrZero() int {
	if f.Likes == nil {
		return 0
	}
	return *f.Likes
}

// HasRequired reports whether both title and url were supplied.
func (f Fields) HasRequired() bool {
	return f.Title != "" && f.URL != ""
}

// UnmarshalJSON accepts likes as a number, a numeric string or a boolean.
// null, false and "" all decode to an unset count.
func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain Fields

	aux := struct {
		*plain
		Likes json.RawMessage `json:"likes"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	likes, err := decodeLikes(aux.Likes)
	if err != nil {
		return err
	}
	f.Likes = likes

	return nil
}

func decodeLikes(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)

	switch string(raw) {
	case "", "null", "false":
		return nil, nil
	case "true":
		one := 1
		return &one, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, likesTypeError("string")
		}
		return &n, nil
	case '{':
		return nil, likesTypeError("object")
	case '[':
		return nil, likesTypeError("array")
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, likesTypeError("number " + string(raw))
	}
	return &n, nil
}

func likesTypeError(value string) error {
	return &json.UnmarshalTypeError{
		Value: value,
		Type:  reflect.TypeOf(0),
		Field: "likes",
	}
}

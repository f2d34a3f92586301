// Package stats computes aggregate figures over a set of blogs.
package stats

import "github.com/geocoder89/bloglist/internal/domain/blog"

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Summary is the payload of GET /api/blogs/stats. Pointer fields are null when
// there are no blogs.
type Summary struct {
	Count        int          `json:"count"`
	TotalLikes   int          `json:"totalLikes"`
	FavoriteBlog *blog.Blog   `json:"favoriteBlog"`
	MostBlogs    *AuthorBlogs `json:"mostBlogs"`
	MostLikes    *AuthorLikes `json:"mostLikes"`
}

func TotalLikes(blogs []blog.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the most liked blog. On a tie the later blog wins.
func FavoriteBlog(blogs []blog.Blog) (blog.Blog, bool) {
	if len(blogs) == 0 {
		return blog.Blog{}, false
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes >= best.Likes {
			best = b
		}
	}
	return best, true
}

// MostBlogs returns the author with the most blogs. On a tie the author seen
// first wins.
func MostBlogs(blogs []blog.Blog) (AuthorBlogs, bool) {
	order, counts := groupByAuthor(blogs, func(blog.Blog) int { return 1 })
	if len(order) == 0 {
		return AuthorBlogs{}, false
	}

	author := maxAuthor(order, counts)
	return AuthorBlogs{Author: author, Blogs: counts[author]}, true
}

// MostLikes returns the author whose blogs collected the most likes. On a tie
// the author seen first wins.
func MostLikes(blogs []blog.Blog) (AuthorLikes, bool) {
	order, likes := groupByAuthor(blogs, func(b blog.Blog) int { return b.Likes })
	if len(order) == 0 {
		return AuthorLikes{}, false
	}

	author := maxAuthor(order, likes)
	return AuthorLikes{Author: author, Likes: likes[author]}, true
}

func Summarize(blogs []blog.Blog) Summary {
	s := Summary{
		Count:      len(blogs),
		TotalLikes: TotalLikes(blogs),
	}

	if fav, ok := FavoriteBlog(blogs); ok {
		s.FavoriteBlog = &fav
	}
	if mb, ok := MostBlogs(blogs); ok {
		s.MostBlogs = &mb
	}
	if ml, ok := MostLikes(blogs); ok {
		s.MostLikes = &ml
	}

	return s
}

func groupByAuthor(blogs []blog.Blog, weight func(blog.Blog) int) ([]string, map[string]int) {
	order := make([]string, 0)
	sums := make(map[string]int)

	for _, b := range blogs {
		if _, seen := sums[b.Author]; !seen {
			order = append(order, b.Author)
		}
		sums[b.Author] += weight(b)
	}

	return order, sums
}

func maxAuthor(order []string, sums map[string]int) string {
	best := order[0]
	for _, a := range order[1:] {
		if sums[a] > sums[best] {
			best = a
		}
	}
	return best
}

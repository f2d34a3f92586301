package stats

import (
	"testing"

	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listWithOneBlog = []blog.Blog{
	{ID: "5a422aa71b54a676234d17f8", Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
}

var blogs = []blog.Blog{
	{ID: "1", Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7},
	{ID: "2", Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/", Likes: 5},
	{ID: "3", Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", URL: "http://www.cs.utexas.edu/", Likes: 12},
	{ID: "4", Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/", Likes: 10},
	{ID: "5", Title: "TDD harms architecture", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/", Likes: 0},
	{ID: "6", Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/", Likes: 2},
}

func TestTotalLikes(t *testing.T) {
	assert.Equal(t, 0, TotalLikes(nil))
	assert.Equal(t, 5, TotalLikes(listWithOneBlog))
	assert.Equal(t, 36, TotalLikes(blogs))
}

func TestFavoriteBlog(t *testing.T) {
	_, ok := FavoriteBlog(nil)
	assert.False(t, ok)

	fav, ok := FavoriteBlog(blogs)
	require.True(t, ok)
	assert.Equal(t, "Canonical string reduction", fav.Title)
	assert.Equal(t, 12, fav.Likes)

	tied := []blog.Blog{{ID: "a", Likes: 3}, {ID: "b", Likes: 3}}
	fav, _ = FavoriteBlog(tied)
	assert.Equal(t, "b", fav.ID)
}

func TestMostBlogs(t *testing.T) {
	_, ok := MostBlogs(nil)
	assert.False(t, ok)

	got, ok := MostBlogs(blogs)
	require.True(t, ok)
	assert.Equal(t, AuthorBlogs{Author: "Robert C. Martin", Blogs: 3}, got)

	got, _ = MostBlogs(listWithOneBlog)
	assert.Equal(t, AuthorBlogs{Author: "Edsger W. Dijkstra", Blogs: 1}, got)
}

func TestMostLikes(t *testing.T) {
	_, ok := MostLikes(nil)
	assert.False(t, ok)

	got, ok := MostLikes(blogs)
	require.True(t, ok)
	assert.Equal(t, AuthorLikes{Author: "Edsger W. Dijkstra", Likes: 17}, got)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.FavoriteBlog)
	assert.Nil(t, empty.MostBlogs)
	assert.Nil(t, empty.MostLikes)

	s := Summarize(blogs)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 36, s.TotalLikes)
	require.NotNil(t, s.FavoriteBlog)
	assert.Equal(t, "3", s.FavoriteBlog.ID)
	assert.Equal(t, "Robert C. Martin", s.MostBlogs.Author)
	assert.Equal(t, "Edsger W. Dijkstra", s.MostLikes.Author)
}

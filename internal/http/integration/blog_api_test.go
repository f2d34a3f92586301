package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/bloglist/internal/auth"
	"github.com/geocoder89/bloglist/internal/cache"
	"github.com/geocoder89/bloglist/internal/config"
	"github.com/geocoder89/bloglist/internal/domain"
	"github.com/geocoder89/bloglist/internal/domain/blog"
	"github.com/geocoder89/bloglist/internal/domain/user"
	apphttp "github.com/geocoder89/bloglist/internal/http"
	"github.com/geocoder89/bloglist/internal/repo/memory"
	"github.com/geocoder89/bloglist/internal/security"
	"github.com/geocoder89/bloglist/internal/service"
	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-key"

var initialBlogs = []blog.Fields{
	{Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: intPtr(7)},
	{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: intPtr(5)},
}

func intPtr(v int) *int { return &v }

type testApp struct {
	router http.Handler
	store  *memory.Store
	token  string
	root   user.User
}

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		Secret:             testSecret,
		CORSAllowedOrigins: []string{"*"},
		MaxBodyBytes:       1 << 20,
	}
}

// setupApp builds the full router over a fresh in-memory store with a root
// user and the initial blogs.
func setupApp(t *testing.T) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	store := memory.NewStore()
	tokens := auth.NewManager(testSecret)
	hasher := security.Hasher{}
	responses := cache.New(time.Minute)

	hash, err := security.HashPassword("KyawHtetAung")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	root, err := store.Users().Create(ctx, user.User{ID: domain.NewID(), Username: "root", PasswordHash: hash, Blogs: []string{}})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}

	token, err := tokens.Issue(root.Username, root.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, f := range initialBlogs {
		if _, err := store.Blogs().Create(ctx, blog.Blog{ID: domain.NewID(), Title: f.Title, Author: f.Author, URL: f.URL, Likes: f.LikesOrZero()}); err != nil {
			t.Fatalf("seed blog: %v", err)
		}
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Config: testConfig(),
		Blogs:  service.NewBlogService(store.Blogs(), store.Users(), tokens, responses, nil),
		Users:  service.NewUserService(store.Users(), hasher, responses, nil),
		Login:  service.NewLoginService(store.Users(), hasher, tokens),
		Ping:   store.Ping,
	})

	return testApp{router: router, store: store, token: token, root: root}
}

// helpers

// doRequest sends no body at all when body is empty.
func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)

	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func blogsInDB(t *testing.T, app testApp) []blog.Blog {
	t.Helper()

	all, err := app.store.Blogs().List(context.Background())
	if err != nil {
		t.Fatalf("list blogs: %v", err)
	}
	return all
}

func usersInDB(t *testing.T, app testApp) []user.WithBlogs {
	t.Helper()

	all, err := app.store.Users().ListWithBlogs(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	return all
}

func TestBlogAPI_ListIsJSONWithIDs(t *testing.T) {
	app := setupApp(t)

	w := doRequest(app.router, http.MethodGet, "/api/blogs", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var items []map[string]any
	mustReadJSON(t, w, &items)

	if len(items) != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", len(items), len(initialBlogs))
	}
	for _, item := range items {
		if _, ok := item["id"]; !ok {
			t.Fatalf("blog without id: %v", item)
		}
		if _, ok := item["_id"]; ok {
			t.Fatalf("blog exposes _id: %v", item)
		}
		if _, ok := item["__v"]; ok {
			t.Fatalf("blog exposes __v: %v", item)
		}
	}
}

func TestBlogAPI_AddValidBlog(t *testing.T) {
	app := setupApp(t)

	body := `{"title":"Canonical string reduction","author":"Edsger W. Dijkstra","url":"http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html","likes":12}`
	w := doRequest(app.router, http.MethodPost, "/api/blogs", body, app.token)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var created blog.Blog
	mustReadJSON(t, w, &created)

	if created.Likes != 12 || created.UserID == nil || *created.UserID != app.root.ID {
		t.Fatalf("unexpected created blog: %+v", created)
	}

	atEnd := blogsInDB(t, app)
	if len(atEnd) != len(initialBlogs)+1 {
		t.Fatalf("got %d blogs, want %d", len(atEnd), len(initialBlogs)+1)
	}

	// the listing now shows the owner inlined and the user shows the blog
	w = doRequest(app.router, http.MethodGet, "/api/blogs", "", "")
	var listed []blog.WithOwner
	mustReadJSON(t, w, &listed)

	last := listed[len(listed)-1]
	if last.User == nil || last.User.Username != "root" {
		t.Fatalf("expected populated owner, got %+v", last.User)
	}

	w = doRequest(app.router, http.MethodGet, "/api/users", "", "")
	var users []user.WithBlogs
	mustReadJSON(t, w, &users)

	if len(users) != 1 || len(users[0].Blogs) != 1 || users[0].Blogs[0].Title != "Canonical string reduction" {
		t.Fatalf("unexpected users listing: %+v", users)
	}
}

func TestBlogAPI_LikesDefaultToZero(t *testing.T) {
	app := setupApp(t)

	body := `{"title":"First class tests","author":"Robert C. Martin","url":"http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll"}`
	w := doRequest(app.router, http.MethodPost, "/api/blogs", body, app.token)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	atEnd := blogsInDB(t, app)
	if got := atEnd[len(atEnd)-1].Likes; got != 0 {
		t.Fatalf("got likes %d, want 0", got)
	}
}

func TestBlogAPI_MissingTitleOrURLIsNotAdded(t *testing.T) {
	app := setupApp(t)

	w := doRequest(app.router, http.MethodPost, "/api/blogs", `{"author":"Robert C. Martin","likes":0}`, app.token)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
	if n := len(blogsInDB(t, app)); n != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", n, len(initialBlogs))
	}
}

func TestBlogAPI_DeleteOwnBlog(t *testing.T) {
	app := setupApp(t)

	body := `{"title":"Canonical string reduction","author":"Edsger W. Dijkstra","url":"http://example.com","likes":12}`
	w := doRequest(app.router, http.MethodPost, "/api/blogs", body, app.token)
	if w.Code != http.StatusOK {
		t.Fatalf("create got status %d, body=%s", w.Code, w.Body.String())
	}

	var created blog.Blog
	mustReadJSON(t, w, &created)

	w = doRequest(app.router, http.MethodDelete, "/api/blogs/"+created.ID, "", app.token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete got status %d, want 204, body=%s", w.Code, w.Body.String())
	}

	atEnd := blogsInDB(t, app)
	if len(atEnd) != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", len(atEnd), len(initialBlogs))
	}
	for _, b := range atEnd {
		if b.ID == created.ID {
			t.Fatalf("deleted blog still stored")
		}
	}
}

func TestBlogAPI_DeleteRejections(t *testing.T) {
	app := setupApp(t)

	w := doRequest(app.router, http.MethodPost, "/api/blogs", `{"title":"mine","url":"http://example.com"}`, app.token)
	var created blog.Blog
	mustReadJSON(t, w, &created)

	w = doRequest(app.router, http.MethodPost, "/api/users", `{"username":"mallory","password":"secret"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("create user got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(app.router, http.MethodPost, "/api/login", `{"username":"mallory","password":"secret"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}
	var login user.LoginResponse
	mustReadJSON(t, w, &login)

	seeded := blogsInDB(t, app)[0]

	tests := []struct {
		name       string
		id         string
		token      string
		wantStatus int
	}{
		{name: "foreign_owner", id: created.ID, token: login.Token, wantStatus: http.StatusNotFound},
		{name: "ownerless_blog", id: seeded.ID, token: app.token, wantStatus: http.StatusNotFound},
		{name: "unknown_id", id: domain.NewID(), token: app.token, wantStatus: http.StatusNotFound},
		{name: "malformed_id", id: "12345", token: app.token, wantStatus: http.StatusBadRequest},
		{name: "no_token", id: created.ID, token: "", wantStatus: http.StatusUnauthorized},
		{name: "invalid_token", id: created.ID, token: "invalid token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			before := len(blogsInDB(t, app))

			w := doRequest(app.router, http.MethodDelete, "/api/blogs/"+tt.id, "", tt.token)
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if after := len(blogsInDB(t, app)); after != before {
				t.Fatalf("blog count changed from %d to %d", before, after)
			}
		})
	}
}

func TestBlogAPI_UpdateWithoutAuth(t *testing.T) {
	app := setupApp(t)

	target := blogsInDB(t, app)[0]
	body := `{"title":"` + target.Title + `","author":"` + target.Author + `","url":"` + target.URL + `","likes":12}`

	w := doRequest(app.router, http.MethodPut, "/api/blogs/"+target.ID, body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	atEnd := blogsInDB(t, app)
	if len(atEnd) != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", len(atEnd), len(initialBlogs))
	}
	if atEnd[0].Likes != 12 {
		t.Fatalf("got likes %d, want 12", atEnd[0].Likes)
	}

	// omitted likes fall back to 0
	w = doRequest(app.router, http.MethodPut, "/api/blogs/"+target.ID, `{"title":"x","author":"y","url":"z"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if got := blogsInDB(t, app)[0].Likes; got != 0 {
		t.Fatalf("got likes %d, want 0", got)
	}

	w = doRequest(app.router, http.MethodPut, "/api/blogs/"+domain.NewID(), body, "")
	if w.Code != http.StatusOK || w.Body.String() != "null" {
		t.Fatalf("expected 200 null for unknown id, got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(app.router, http.MethodPut, "/api/blogs/not-an-id", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestBlogAPI_AddWithInvalidToken(t *testing.T) {
	app := setupApp(t)

	body := `{"title":"Canonical string reduction","author":"Edsger W. Dijkstra","url":"http://example.com","likes":12}`
	w := doRequest(app.router, http.MethodPost, "/api/blogs", body, "invalid token")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
	if n := len(blogsInDB(t, app)); n != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", n, len(initialBlogs))
	}
}

func TestBlogAPI_AddWithoutValidTokenIgnoresBody(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name      string
		body      string
		token     string
		wantError string
	}{
		{name: "no_token_no_body", body: "", token: "", wantError: "token missing or invalid"},
		{name: "no_token_malformed_json", body: `{"title":`, token: "", wantError: "token missing or invalid"},
		{name: "garbage_token_string_likes", body: `{"title":"x","url":"y","likes":"5"}`, token: "garbage", wantError: "invalid token"},
		{name: "garbage_token_wrong_type", body: `{"title":"x","url":"y","likes":[5]}`, token: "garbage", wantError: "invalid token"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(app.router, http.MethodPost, "/api/blogs", tt.body, tt.token)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401, body=%s", w.Code, w.Body.String())
			}

			var resp struct {
				Error string `json:"error"`
			}
			mustReadJSON(t, w, &resp)
			if resp.Error != tt.wantError {
				t.Fatalf("got error %q, want %q", resp.Error, tt.wantError)
			}

			if n := len(blogsInDB(t, app)); n != len(initialBlogs) {
				t.Fatalf("got %d blogs, want %d", n, len(initialBlogs))
			}
			if got := usersInDB(t, app)[0].Blogs; len(got) != 0 {
				t.Fatalf("root should own no blogs, got %+v", got)
			}
		})
	}
}

func TestBlogAPI_AddWithEmptyBodyIsNotAdded(t *testing.T) {
	app := setupApp(t)

	w := doRequest(app.router, http.MethodPost, "/api/blogs", "", app.token)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
	if n := len(blogsInDB(t, app)); n != len(initialBlogs) {
		t.Fatalf("got %d blogs, want %d", n, len(initialBlogs))
	}
}

func TestBlogAPI_UpdateWithEmptyBodyClearsFields(t *testing.T) {
	app := setupApp(t)

	target := blogsInDB(t, app)[0]

	w := doRequest(app.router, http.MethodPut, "/api/blogs/"+target.ID, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var updated blog.Blog
	mustReadJSON(t, w, &updated)
	if updated.ID != target.ID || updated.Title != "" || updated.URL != "" || updated.Likes != 0 {
		t.Fatalf("unexpected updated blog: %+v", updated)
	}

	stored := blogsInDB(t, app)[0]
	if stored.Title != "" || stored.Author != "" || stored.URL != "" || stored.Likes != 0 {
		t.Fatalf("stored blog not cleared: %+v", stored)
	}
}

func TestBlogAPI_UpdateLikesFalseIsZero(t *testing.T) {
	app := setupApp(t)

	target := blogsInDB(t, app)[0]
	body := `{"title":"` + target.Title + `","url":"` + target.URL + `","likes":false}`

	w := doRequest(app.router, http.MethodPut, "/api/blogs/"+target.ID, body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if got := blogsInDB(t, app)[0].Likes; got != 0 {
		t.Fatalf("got likes %d, want 0", got)
	}
}

func TestUserAPI_CreateFreshUsername(t *testing.T) {
	app := setupApp(t)
	atStart := usersInDB(t, app)

	w := doRequest(app.router, http.MethodPost, "/api/users", `{"username":"John Doe","name":"JohnDoe","password":"John"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Fatalf("password hash exposed: %s", w.Body.String())
	}

	atEnd := usersInDB(t, app)
	if len(atEnd) != len(atStart)+1 {
		t.Fatalf("got %d users, want %d", len(atEnd), len(atStart)+1)
	}

	found := false
	for _, u := range atEnd {
		if u.Username == "John Doe" {
			found = true
		}
	}
	if !found {
		t.Fatalf("new username not stored")
	}
}

func TestUserAPI_CreateRejections(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "taken_username", body: `{"username":"root","name":"rootuser","password":"rootuser"}`, wantErr: "`username` to be unique"},
		{name: "short_username", body: `{"username":"ro","password":"rootuser"}`, wantErr: "shorter than the minimum allowed length"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			atStart := usersInDB(t, app)

			w := doRequest(app.router, http.MethodPost, "/api/users", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}

			var resp struct {
				Error string `json:"error"`
			}
			mustReadJSON(t, w, &resp)

			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Fatalf("error %q does not contain %q", resp.Error, tt.wantErr)
			}

			if atEnd := usersInDB(t, app); len(atEnd) != len(atStart) {
				t.Fatalf("user count changed from %d to %d", len(atStart), len(atEnd))
			}
		})
	}
}

func TestAPI_UnknownEndpoint(t *testing.T) {
	app := setupApp(t)

	w := doRequest(app.router, http.MethodGet, "/api/nothing-here", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	mustReadJSON(t, w, &resp)

	if resp.Error != "unknown endpoint" {
		t.Fatalf("got error %q", resp.Error)
	}
}

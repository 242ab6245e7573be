package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/philly/memo-board/internal/adapters/auth"
	"github.com/philly/memo-board/internal/adapters/identity_adapter"
	"github.com/philly/memo-board/internal/adapters/rest"
	"github.com/philly/memo-board/internal/adapters/rest/middleware"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/platform/ownership"
	postsApp "github.com/philly/memo-board/internal/posts/application"
	usersApp "github.com/philly/memo-board/internal/users/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestHandler assembles the same graph as InitializeApp over in-memory storage
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	log := logger.NewNop()
	storage := NewMemoryStorage()
	bus := provideEventBus(log)
	t.Cleanup(bus.Wait)

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: "test-secret", Expiry: time.Hour})
	require.NoError(t, err)

	userService := usersApp.NewUserService(storage.Users, auth.NewBcryptHasherWithCost(bcrypt.MinCost), tokens, bus, log)
	resolver := usersApp.NewIdentityResolver(storage.Users, usersApp.ResolverConfig{CacheTTL: time.Minute}, bus)
	postsService := postsApp.NewPostsService(
		postsApp.Config{},
		storage.Posts,
		identity_adapter.NewIdentityAdapter(resolver),
		postsApp.NewProjector(),
		ownership.NewGate(),
		bus,
		log,
	)

	base := rest.NewBaseHandler(log)
	server := rest.NewServer(
		rest.NewHealthHandler(base, "test", storage.Ping),
		rest.NewAuthHandler(base, userService),
		rest.NewPostsHandler(base, postsService),
	)
	return NewHandler(server, middleware.NewBearerAuth(userService, log), log)
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c client) register(username string) (id, token string) {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret",
	})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decode(c.t, rec, &resp)
	return resp.User.ID, resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorBody struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code"`
	Message      string `json:"message"`
}

type postBody struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Views  int64  `json:"views"`
	Author *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
	Category *string `json:"category"`
	Comments []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
		Author  *struct {
			Username string `json:"username"`
		} `json:"author"`
	} `json:"comments"`
}

func TestBoardFlow(t *testing.T) {
	c := client{t: t, handler: newTestHandler(t)}

	aliceID, alice := c.register("alice")
	_, bob := c.register("bob")

	// create without a token
	rec := c.do(http.MethodPost, "/api/posts", "", map[string]string{"title": "t", "body": "b"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var errResp errorBody
	decode(t, rec, &errResp)
	assert.Equal(t, "No token provided", errResp.Message)

	// alice creates through the trailing-slash path
	rec = c.do(http.MethodPost, "/api/posts/", alice, map[string]any{
		"title":    "Hello",
		"body":     "First post",
		"category": "DEV",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post postBody
	decode(t, rec, &post)
	require.NotNil(t, post.Author)
	assert.Equal(t, aliceID, post.Author.ID)
	assert.Equal(t, "alice", post.Author.Username)
	require.NotNil(t, post.Category)
	assert.Equal(t, "dev", *post.Category)
	assert.Empty(t, post.Comments)

	// listing is public
	rec = c.do(http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []postBody
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, post.ID, list[0].ID)

	// bob comments, alice sees his username
	rec = c.do(http.MethodPost, "/api/posts/"+post.ID+"/comments", bob, map[string]string{"content": " nice "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &post)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "nice", post.Comments[0].Content)
	require.NotNil(t, post.Comments[0].Author)
	assert.Equal(t, "bob", post.Comments[0].Author.Username)
	commentID := post.Comments[0].ID

	// alice may not edit bob's comment
	rec = c.do(http.MethodPut, "/api/posts/"+post.ID+"/comments/"+commentID, alice, map[string]string{"content": "mine"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "Not authorized", errResp.Message)

	// bob may not delete alice's post
	rec = c.do(http.MethodDelete, "/api/posts/"+post.ID, bob, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// views are public and advance the counter
	rec = c.do(http.MethodPost, "/api/posts/"+post.ID+"/views", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &post)
	assert.Equal(t, int64(1), post.Views)

	// bob removes his comment
	rec = c.do(http.MethodDelete, "/api/posts/"+post.ID+"/comments/"+commentID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &post)
	assert.Empty(t, post.Comments)

	// alice deletes her post
	rec = c.do(http.MethodDelete, "/api/posts/"+post.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg struct {
		Message string `json:"message"`
	}
	decode(t, rec, &msg)
	assert.Equal(t, "Post deleted", msg.Message)

	rec = c.do(http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "Post not found", errResp.Message)
}

func TestCommentDeletionByAuthorOnly(t *testing.T) {
	c := client{t: t, handler: newTestHandler(t)}
	_, alice := c.register("alice")
	_, bob := c.register("bob")

	rec := c.do(http.MethodPost, "/api/posts/", alice, map[string]string{"title": "Hello", "body": "World"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post postBody
	decode(t, rec, &post)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Empty(t, post.Comments)

	rec = c.do(http.MethodPost, "/api/posts/"+post.ID+"/comments", bob, map[string]string{"content": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &post)
	require.Len(t, post.Comments, 1)
	require.NotNil(t, post.Comments[0].Author)
	assert.Equal(t, "bob", post.Comments[0].Author.Username)
	commentPath := "/api/posts/" + post.ID + "/comments/" + post.Comments[0].ID

	rec = c.do(http.MethodDelete, commentPath, alice, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodDelete, commentPath, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &post)
	assert.Empty(t, post.Comments)
}

func TestRouting(t *testing.T) {
	c := client{t: t, handler: newTestHandler(t)}
	_, token := c.register("carol")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantError  string
	}{
		{name: "root", method: http.MethodGet, path: "/", wantStatus: http.StatusOK},
		{name: "liveness", method: http.MethodGet, path: "/api/health/live", wantStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/api/health/ready", wantStatus: http.StatusOK},
		{name: "list with trailing slash", method: http.MethodGet, path: "/api/posts/", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound, wantError: "NOT_FOUND"},
		{name: "wrong method", method: http.MethodPatch, path: "/api/posts", token: token, wantStatus: http.StatusMethodNotAllowed, wantError: "METHOD_NOT_ALLOWED"},
		{name: "malformed post id", method: http.MethodGet, path: "/api/posts/not-a-uuid", wantStatus: http.StatusBadRequest, wantError: "VALIDATION_FAILED"},
		{name: "unknown post", method: http.MethodGet, path: "/api/posts/6f1c1f7e-4a55-4c3a-9a59-0d3f4f1d2e10", wantStatus: http.StatusNotFound, wantError: "NOT_FOUND"},
		{name: "update without token", method: http.MethodPut, path: "/api/posts/6f1c1f7e-4a55-4c3a-9a59-0d3f4f1d2e10", wantStatus: http.StatusUnauthorized, wantError: "UNAUTHORIZED"},
		{name: "garbage token", method: http.MethodDelete, path: "/api/posts/6f1c1f7e-4a55-4c3a-9a59-0d3f4f1d2e10", token: "garbage", wantStatus: http.StatusUnauthorized, wantError: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				var body errorBody
				decode(t, rec, &body)
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}

func TestCreatePost_Validation(t *testing.T) {
	c := client{t: t, handler: newTestHandler(t)}
	_, token := c.register("dave")

	rec := c.do(http.MethodPost, "/api/posts", token, map[string]string{"title": "only a title"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "Missing fields", body.Message)

	rec = c.do(http.MethodPost, "/api/posts", token, []string{"not", "an", "object"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePost_StartsWithZeroCounters(t *testing.T) {
	c := client{t: t, handler: newTestHandler(t)}
	_, token := c.register("erin")

	rec := c.do(http.MethodPost, "/api/posts", token, map[string]any{
		"title":    "Hello",
		"body":     "World",
		"views":    1000,
		"likes":    77,
		"dislikes": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var counters struct {
		Views    int64 `json:"views"`
		Likes    int64 `json:"likes"`
		Dislikes int64 `json:"dislikes"`
	}
	decode(t, rec, &counters)
	assert.Zero(t, counters.Views)
	assert.Zero(t, counters.Likes)
	assert.Zero(t, counters.Dislikes)
}

func TestCORS(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNormalizePattern(t *testing.T) {
	assert.Equal(t, "/", normalizePattern(""))
	assert.Equal(t, "/", normalizePattern("/"))
	assert.Equal(t, "/api/posts", normalizePattern("/api/posts/"))
	assert.Equal(t, "/api/posts/{postId}", normalizePattern("/api/posts/{postId}"))
}

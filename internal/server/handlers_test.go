package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vibehunt/internal/cache"
	"vibehunt/internal/config"
	"vibehunt/internal/database"
	"vibehunt/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cache.SetClient(nil)

	cfg := &config.Config{Port: "8240", Env: "test"}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func createPostViaAPI(t *testing.T, app *fiber.App, title string) models.Post {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"title":   title,
		"tagline": "tagline for " + title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var post models.Post
	require.NoError(t, json.Unmarshal(raw, &post))
	return post
}

func TestCreatePostHandler(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"title":   "  Night Owl ",
		"tagline": "Ship while they sleep",
		"maker":   "ada",
		"url":     "https://nightowl.dev",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var post models.Post
	require.NoError(t, json.Unmarshal(raw, &post))
	assert.Equal(t, "Night Owl", post.Title)
	assert.Equal(t, "ada", post.Maker)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.Zero(t, post.VotesCount)
	assert.Zero(t, post.CommentsCount)
}

func TestCreatePostHandler_Validation(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"tagline": "no title",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeValidation, errResp.Code)
}

func TestGetPostHandler(t *testing.T) {
	app, _ := setupTestApp(t)
	post := createPostViaAPI(t, app, "Lookup Target")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/posts/"+post.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Post
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "Lookup Target", got.Title)
}

func TestGetPostHandler_InvalidID(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/posts/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeInvalidID, errResp.Code)
}

func TestGetPostHandler_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/posts/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeNotFound, errResp.Code)
}

func TestGetPostsHandler_SortAndRange(t *testing.T) {
	app, db := setupTestApp(t)

	oldPost := createPostViaAPI(t, app, "Old Timer")
	fresh := createPostViaAPI(t, app, "Fresh Drop")

	// Push one post outside the week window.
	stale := time.Now().UTC().Add(-8 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", oldPost.ID).
		UpdateColumns(map[string]interface{}{"created_at": stale, "updated_at": stale}).Error)

	// Give the fresh post a vote so the default sort is deterministic.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/posts/"+fresh.ID.String()+"/vote",
		fiber.Map{"device_id": "device-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/posts?range=week&sort=votes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, fresh.ID, posts[0].ID)

	resp, raw = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, fresh.ID, posts[0].ID, "voted post sorts first by default")
}

func TestToggleVoteHandler(t *testing.T) {
	app, _ := setupTestApp(t)
	post := createPostViaAPI(t, app, "Vote Target")
	path := "/api/posts/" + post.ID.String() + "/vote"

	resp, raw := doJSON(t, app, http.MethodPost, path, fiber.Map{"device_id": "device-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var result struct {
		Voted bool `json:"voted"`
		Votes int  `json:"votes"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result.Voted)
	assert.Equal(t, 1, result.Votes)

	// Same device again: the toggle undoes the vote.
	resp, raw = doJSON(t, app, http.MethodPost, path, fiber.Map{"device_id": "device-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.False(t, result.Voted)
	assert.Equal(t, 0, result.Votes)
}

func TestToggleVoteHandler_RequiresDeviceID(t *testing.T) {
	app, _ := setupTestApp(t)
	post := createPostViaAPI(t, app, "Vote Target")

	resp, raw := doJSON(t, app, http.MethodPost,
		"/api/posts/"+post.ID.String()+"/vote", fiber.Map{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeValidation, errResp.Code)
}

func TestToggleVoteHandler_UnknownPost(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost,
		"/api/posts/"+uuid.NewString()+"/vote", fiber.Map{"device_id": "device-1"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeNotFound, errResp.Code)
}

func TestCommentHandlers(t *testing.T) {
	app, _ := setupTestApp(t)
	post := createPostViaAPI(t, app, "Discussion Target")
	path := "/api/posts/" + post.ID.String() + "/comments"

	resp, raw := doJSON(t, app, http.MethodPost, path, fiber.Map{
		"content":   "first!",
		"author":    "grace",
		"device_id": "device-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var comment models.Comment
	require.NoError(t, json.Unmarshal(raw, &comment))
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "first!", comment.Content)

	// Counter is visible on the post detail.
	resp, raw = doJSON(t, app, http.MethodGet, "/api/posts/"+post.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Post
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1, got.CommentsCount)

	resp, raw = doJSON(t, app, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(raw, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

func TestCreateCommentHandler_EmptyContent(t *testing.T) {
	app, _ := setupTestApp(t)
	post := createPostViaAPI(t, app, "Discussion Target")

	resp, raw := doJSON(t, app, http.MethodPost,
		"/api/posts/"+post.ID.String()+"/comments", fiber.Map{"content": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeValidation, errResp.Code)
}

func TestCreateCommentHandler_UnknownPost(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodPost,
		"/api/posts/"+uuid.NewString()+"/comments", fiber.Map{"content": "hi"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, models.CodeNotFound, errResp.Code)
}

func TestGetCommentsHandler_UnknownPostIsEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet,
		"/api/posts/"+uuid.NewString()+"/comments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(raw, &comments))
	assert.Empty(t, comments)
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var root map[string]string
	require.NoError(t, json.Unmarshal(raw, &root))
	assert.Equal(t, "VibeHunt API", root["name"])
	assert.Equal(t, "ok", root["status"])

	resp, _ = doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var ready struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(raw, &ready))
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "healthy", ready.Checks.Database)
	assert.Equal(t, "unavailable", ready.Checks.Redis)
}

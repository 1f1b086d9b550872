package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/config"
	"github.com/femtrack/forum/internal/handler"
	"github.com/femtrack/forum/internal/kv"
	"github.com/femtrack/forum/internal/setup"
	"github.com/femtrack/forum/internal/store"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	st := store.New(kv.NewMemory())
	srv := httptest.NewServer(New(&setup.Dependencies{
		Config:  cfg,
		Store:   st,
		Handler: handler.New(st),
		Cleanup: func() {},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouterWireContract(t *testing.T) {
	srv := newTestServer(t, config.Default())
	base := srv.URL + "/api"

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(base + "/health")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

		health := decodeBody[api.HealthResponse](t, resp)
		assert.True(t, health.Ok)
		assert.Equal(t, handler.ServiceName, health.Service)
	})

	t.Run("seeded topics", func(t *testing.T) {
		resp, err := http.Get(base + "/topics")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		topics := decodeBody[api.TopicsResponse](t, resp)
		require.Len(t, topics.Topics, 4)
		assert.Equal(t, "cycle", topics.Topics[0].Slug)
	})

	t.Run("topic post reply lifecycle", func(t *testing.T) {
		resp := postJSON(t, base+"/topics", `{"name":"Hiking Club","description":"Trails"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decodeBody[api.TopicResponse](t, resp)
		assert.Equal(t, "hiking-club", created.Topic.Slug)

		resp = postJSON(t, base+"/topics/hiking-club/posts", `{"title":"First hike","content":"Who is in?","author":"Jo"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		post := decodeBody[api.PostResponse](t, resp)
		assert.True(t, strings.HasPrefix(post.Post.Id, "p_"))
		assert.Equal(t, "Jo", post.Post.Author)

		resp = postJSON(t, base+"/topics/hiking-club/posts/"+post.Post.Id+"/replies", `{"content":"Me!"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		reply := decodeBody[api.ReplyResponse](t, resp)
		assert.True(t, strings.HasPrefix(reply.Reply.Id, "r_"))
		assert.Equal(t, "Anonymous", reply.Reply.Author)

		resp, err := http.Get(base + "/topics/hiking-club/posts")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		posts := decodeBody[api.PostsResponse](t, resp)
		require.Len(t, posts.Posts, 1)
		require.Len(t, posts.Posts[0].Replies, 1)
	})

	t.Run("duplicate topic conflicts", func(t *testing.T) {
		resp := postJSON(t, base+"/topics", `{"name":"Fitness & Wellness"}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "A topic with this name already exists.", body.Error)
	})

	t.Run("validation error", func(t *testing.T) {
		resp := postJSON(t, base+"/topics", `{"name":"Hi"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Topic name should be at least 3 characters.", body.Error)
	})

	t.Run("unknown topic", func(t *testing.T) {
		resp, err := http.Get(base + "/topics/nope/posts")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Topic not found.", body.Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := postJSON(t, base+"/topics", `{"name":`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Invalid JSON body", body.Error)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/unknown")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Not found.", body.Error)
	})

	t.Run("wrong method", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, base+"/topics", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Method not allowed.", body.Error)
	})

	t.Run("plain options answers empty", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, base+"/topics", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Empty(t, raw)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, base+"/topics", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("oversized body", func(t *testing.T) {
		big := fmt.Sprintf(`{"name":"Big","description":%q}`, strings.Repeat("x", maxBodyBytes+1))
		resp, err := http.Post(base+"/topics", "application/json", bytes.NewReader([]byte(big)))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[api.ErrorResponse](t, resp)
		assert.Equal(t, "Payload too large.", body.Error)
	})
}

func TestRouterWriteRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit = config.RateLimit{RPS: 0.0001, Burst: 2}
	srv := newTestServer(t, cfg)
	base := srv.URL + "/api"

	for i := 0; i < 2; i++ {
		resp := postJSON(t, base+"/topics", fmt.Sprintf(`{"name":"Topic Number %d"}`, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, base+"/topics", `{"name":"One Too Many"}`)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Equal(t, "Rate limit exceeded, try again later.", body.Error)

	// Reads stay unlimited.
	get, err := http.Get(base + "/topics")
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)
}

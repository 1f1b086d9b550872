// Package client presents the five forum operations to UI code regardless
// of network state. It resolves a working API base out of an ordered
// candidate list, retries each call across the remaining candidates on
// transport failure, and transparently falls back to the local content
// store when every remote is down. Business-rule errors from a server are
// authoritative: they are raised immediately and never retried or masked.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/domain"
	"github.com/femtrack/forum/internal/errors"
	"github.com/femtrack/forum/internal/kv"
	"github.com/femtrack/forum/internal/logger"
)

// Forum is the uniform interface of the five logical operations. Both the
// content store and this client satisfy it, so UI code cannot tell which
// backend served a request.
type Forum interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	CreateTopic(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error)
	ListPosts(ctx context.Context, slugInput string) ([]domain.Post, error)
	CreatePost(ctx context.Context, slugInput string, data domain.PostCreationData) (domain.Post, error)
	CreateReply(ctx context.Context, slugInput string, postId domain.PostId, data domain.ReplyCreationData) (domain.Reply, error)
}

const (
	// DefaultBase is the fixed last-resort candidate, matching the
	// standalone server's default port.
	DefaultBase = "http://localhost:8787/api"

	// baseCacheKey persists the last base that answered, so future
	// sessions skip the probe.
	baseCacheKey = "forum:apibase:v1"

	defaultProbeTimeout = 2200 * time.Millisecond
)

type Client struct {
	http         *http.Client
	local        Forum
	cache        kv.KV
	bases        []string
	defaultBase  string
	probeTimeout time.Duration

	mu       sync.Mutex
	resolved string

	offlineOnce sync.Once
	onOffline   func()
}

var _ Forum = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the transport; tests inject short timeouts here.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithOfflineNotice sets the hook fired once when the client first falls
// back to the local store; the UI shows its "offline mode" toast from it.
func WithOfflineNotice(fn func()) Option {
	return func(c *Client) { c.onOffline = fn }
}

func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

func WithDefaultBase(base string) Option {
	return func(c *Client) { c.defaultBase = strings.TrimRight(base, "/") }
}

// New builds a client. local is the file-backed content store used when
// every remote candidate fails; cache persists the resolved base across
// sessions; bases are configured remote candidates tried before the
// default.
func New(local Forum, cache kv.KV, bases []string, opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{},
		local:        local,
		cache:        cache,
		defaultBase:  DefaultBase,
		probeTimeout: defaultProbeTimeout,
		onOffline: func() {
			logger.Log.Warn("forum api unreachable, switching to local forum mode")
		},
	}
	for _, b := range bases {
		if b = strings.TrimRight(b, "/"); b != "" {
			c.bases = append(c.bases, b)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// candidates returns the ordered, de-duplicated base list: previously
// resolved (persisted), configured bases, fixed default.
func (c *Client) candidates(ctx context.Context) []string {
	list := make([]string, 0, len(c.bases)+2)
	if cached := c.cachedBase(ctx); cached != "" {
		list = append(list, cached)
	}
	list = append(list, c.bases...)
	list = append(list, c.defaultBase)
	return dedupe(list)
}

func (c *Client) cachedBase(ctx context.Context) string {
	raw, ok, err := c.cache.Get(ctx, baseCacheKey)
	if err != nil || !ok {
		return ""
	}
	var base string
	if err := json.Unmarshal(raw, &base); err != nil {
		return ""
	}
	return strings.TrimRight(base, "/")
}

// resolve picks the API base for this session: first candidate whose
// health check answers ok. If none do, the default base is chosen
// optimistically — later calls may still reach it, or fail over locally.
func (c *Client) resolve(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved != "" {
		return c.resolved
	}
	for _, base := range c.candidates(ctx) {
		if c.healthy(ctx, base) {
			c.setResolvedLocked(ctx, base)
			return base
		}
	}
	c.resolved = c.defaultBase
	return c.resolved
}

// healthy probes base's health endpoint within the probe timeout and
// requires the explicit ok flag, so an unrelated 200 never wins resolution.
func (c *Client) healthy(ctx context.Context, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Ok
}

func (c *Client) setResolved(ctx context.Context, base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setResolvedLocked(ctx, base)
}

func (c *Client) setResolvedLocked(ctx context.Context, base string) {
	c.resolved = base
	raw, _ := json.Marshal(base)
	if err := c.cache.Set(ctx, baseCacheKey, raw); err != nil {
		logger.Log.Warn("failed to persist resolved api base", "error", err)
	}
}

// call runs one logical operation against the remote candidates and
// decodes the success payload into out. The returned error is either a
// business error (authoritative, from a structured server payload) or a
// transport error meaning every candidate failed.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.NewTransport("Forum request could not be encoded.", err)
		}
	}

	preferred := c.resolve(ctx)
	ordered := dedupe(append([]string{preferred}, c.candidates(ctx)...))

	var lastErr error
	for _, base := range ordered {
		raw, status, err := c.roundTrip(ctx, method, base+path, payload)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 200 && status < 300 {
			c.setResolved(ctx, base)
			if err := json.Unmarshal(raw, out); err != nil {
				return errors.NewTransport("Forum server returned an invalid response.", err)
			}
			return nil
		}
		// A structured error payload is authoritative even on 4xx/5xx:
		// raise it as-is, no further candidates.
		var errResp api.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			return errors.FromStatusCode(status, errResp.Error)
		}
		lastErr = fmt.Errorf("forum api returned status %d", status)
	}
	return errors.NewTransport("Forum server is unavailable.", lastErr)
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return raw, resp.StatusCode, nil
}

// noteOffline fires the one-time offline notice.
func (c *Client) noteOffline() {
	c.offlineOnce.Do(c.onOffline)
}

// === the five logical operations ===

func (c *Client) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	var resp api.TopicsResponse
	err := c.call(ctx, http.MethodGet, "/topics", nil, &resp)
	if err == nil {
		return resp.Topics, nil
	}
	if !errors.IsTransport(err) {
		return nil, err
	}
	c.noteOffline()
	return c.local.ListTopics(ctx)
}

func (c *Client) CreateTopic(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error) {
	body := api.CreateTopicRequest{Slug: data.Slug, Name: data.Name, Description: data.Description}
	var resp api.TopicResponse
	err := c.call(ctx, http.MethodPost, "/topics", body, &resp)
	if err == nil {
		return resp.Topic, nil
	}
	if !errors.IsTransport(err) {
		return domain.Topic{}, err
	}
	c.noteOffline()
	return c.local.CreateTopic(ctx, data)
}

func (c *Client) ListPosts(ctx context.Context, slugInput string) ([]domain.Post, error) {
	var resp api.PostsResponse
	err := c.call(ctx, http.MethodGet, "/topics/"+url.PathEscape(slugInput)+"/posts", nil, &resp)
	if err == nil {
		return resp.Posts, nil
	}
	if !errors.IsTransport(err) {
		return nil, err
	}
	c.noteOffline()
	return c.local.ListPosts(ctx, slugInput)
}

func (c *Client) CreatePost(ctx context.Context, slugInput string, data domain.PostCreationData) (domain.Post, error) {
	body := api.CreatePostRequest{Title: data.Title, Content: data.Content, Author: data.Author}
	var resp api.PostResponse
	err := c.call(ctx, http.MethodPost, "/topics/"+url.PathEscape(slugInput)+"/posts", body, &resp)
	if err == nil {
		return resp.Post, nil
	}
	if !errors.IsTransport(err) {
		return domain.Post{}, err
	}
	c.noteOffline()
	return c.local.CreatePost(ctx, slugInput, data)
}

func (c *Client) CreateReply(ctx context.Context, slugInput string, postId domain.PostId, data domain.ReplyCreationData) (domain.Reply, error) {
	body := api.CreateReplyRequest{Content: data.Content, Author: data.Author}
	path := "/topics/" + url.PathEscape(slugInput) + "/posts/" + url.PathEscape(postId) + "/replies"
	var resp api.ReplyResponse
	err := c.call(ctx, http.MethodPost, path, body, &resp)
	if err == nil {
		return resp.Reply, nil
	}
	if !errors.IsTransport(err) {
		return domain.Reply{}, err
	}
	c.noteOffline()
	return c.local.CreateReply(ctx, slugInput, postId, data)
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

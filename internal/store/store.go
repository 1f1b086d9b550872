// Package store is the single source of truth for topics, posts and replies.
// One implementation runs against every KV backend (remote Redis, local file),
// so validation and mutation behavior cannot drift between the online store
// and the offline replica.
//
// Every mutating operation is a whole-collection read-modify-persist: the
// full topic list (or a topic's full post list) is loaded, changed and
// written back before the call returns. Concurrent writers from other
// processes race last-write-wins; that is an accepted limitation of the
// deployment, not a bug to fix here.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/femtrack/forum/internal/domain"
	"github.com/femtrack/forum/internal/errors"
	"github.com/femtrack/forum/internal/kv"
	"github.com/femtrack/forum/internal/slug"
)

const (
	topicsKey      = "forum:topics:v1"
	postsKeyPrefix = "forum:posts:"

	minTopicName        = 3
	maxTopicName        = 60
	maxTopicDescription = 180
	maxPostTitle        = 120
	maxPostContent      = 3000
	maxReplyContent     = 1500
	maxAuthor           = 60

	// Retention caps: bounded prepend-queues, oldest entries dropped first.
	maxPostsPerTopic  = 2000
	maxRepliesPerPost = 500

	defaultAuthor = "Anonymous"
)

type Store struct {
	kv kv.KV
	mu sync.Mutex

	// seams for tests
	now    func() time.Time
	suffix func() string
}

func New(backend kv.KV) *Store {
	return &Store{
		kv:     backend,
		now:    func() time.Time { return time.Now().UTC() },
		suffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:6] },
	}
}

func postsKey(s domain.TopicSlug) string {
	return postsKeyPrefix + s
}

// seedTopics returns the default topic set every fresh deployment starts
// with. Slugs here are already normalized and stay stable across reseeds.
func seedTopics(createdAt time.Time) []domain.Topic {
	return []domain.Topic{
		{Slug: "cycle", Name: "Cycle Tracking", Description: "Share experiences and tips", CreatedAt: createdAt},
		{Slug: "menopause", Name: "Menopause Support", Description: "Discuss symptoms and coping strategies", CreatedAt: createdAt},
		{Slug: "fitness", Name: "Fitness & Wellness", Description: "Exercise tips and motivation", CreatedAt: createdAt},
		{Slug: "mental", Name: "Mental Health", Description: "Support for emotional wellbeing", CreatedAt: createdAt},
	}
}

// ensureTopics loads the topic list, reseeding (and persisting the seed)
// when the backing value is missing, empty or corrupt.
func (s *Store) ensureTopics(ctx context.Context) ([]domain.Topic, error) {
	raw, ok, err := s.kv.Get(ctx, topicsKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var topics []domain.Topic
		if err := json.Unmarshal(raw, &topics); err == nil && len(topics) > 0 {
			return topics, nil
		}
	}

	topics := seedTopics(s.now())
	if err := s.saveTopics(ctx, topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (s *Store) saveTopics(ctx context.Context, topics []domain.Topic) error {
	raw, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, topicsKey, raw)
}

// loadPosts returns a topic's post list; missing or corrupt data reads as
// empty rather than failing.
func (s *Store) loadPosts(ctx context.Context, topicSlug domain.TopicSlug) ([]domain.Post, error) {
	raw, ok, err := s.kv.Get(ctx, postsKey(topicSlug))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, nil
	}
	return posts, nil
}

func (s *Store) savePosts(ctx context.Context, topicSlug domain.TopicSlug, posts []domain.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, postsKey(topicSlug), raw)
}

// ListTopics returns all topics in insertion order, seeding the default set
// on first access.
func (s *Store) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureTopics(ctx)
}

// CreateTopic validates, normalizes the slug from the given slug or the
// name, and appends the new topic. Validation order and messages are part of
// the contract; clients surface them verbatim.
func (s *Store) CreateTopic(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero domain.Topic

	name := strings.TrimSpace(data.Name)
	description := strings.TrimSpace(data.Description)
	slugSource := data.Slug
	if slugSource == "" {
		slugSource = name
	}
	normalized := slug.Normalize(slugSource)

	if runeLen(name) < minTopicName {
		return zero, errors.NewValidation("Topic name should be at least 3 characters.")
	}
	if normalized == "" {
		return zero, errors.NewValidation("Topic name is invalid.")
	}
	if runeLen(name) > maxTopicName {
		return zero, errors.NewValidation("Topic name is too long (max 60 characters).")
	}
	if runeLen(description) > maxTopicDescription {
		return zero, errors.NewValidation("Topic description is too long (max 180 characters).")
	}

	topics, err := s.ensureTopics(ctx)
	if err != nil {
		return zero, err
	}
	for _, t := range topics {
		if t.Slug == normalized {
			return zero, errors.NewConflict("A topic with this name already exists.")
		}
	}

	topic := domain.Topic{
		Slug:        normalized,
		Name:        name,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.saveTopics(ctx, append(topics, topic)); err != nil {
		return zero, err
	}
	return topic, nil
}

// ListPosts returns a topic's posts newest-first. The list is re-sorted at
// read time; write order is not trusted.
func (s *Store) ListPosts(ctx context.Context, slugInput string) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topicSlug, err := s.requireTopic(ctx, slugInput)
	if err != nil {
		return nil, err
	}

	posts, err := s.loadPosts(ctx, topicSlug)
	if err != nil {
		return nil, err
	}
	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted, nil
}

// CreatePost validates and prepends a post to the topic's bounded list.
func (s *Store) CreatePost(ctx context.Context, slugInput string, data domain.PostCreationData) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero domain.Post

	topicSlug, err := s.requireTopic(ctx, slugInput)
	if err != nil {
		return zero, err
	}

	title := strings.TrimSpace(data.Title)
	content := strings.TrimSpace(data.Content)
	if title == "" || content == "" {
		return zero, errors.NewValidation("Title and content are required.")
	}
	if runeLen(title) > maxPostTitle {
		return zero, errors.NewValidation("Post title is too long (max 120 characters).")
	}
	if runeLen(content) > maxPostContent {
		return zero, errors.NewValidation("Post content is too long (max 3000 characters).")
	}

	post := domain.Post{
		Id:      s.newId("p"),
		Title:   title,
		Content: content,
		Author:  normalizeAuthor(data.Author),
		Date:    s.now(),
		Replies: []domain.Reply{},
	}

	posts, err := s.loadPosts(ctx, topicSlug)
	if err != nil {
		return zero, err
	}
	if err := s.savePosts(ctx, topicSlug, boundedPrepend(posts, post, maxPostsPerTopic)); err != nil {
		return zero, err
	}
	return post, nil
}

// CreateReply validates and prepends a reply to the post's bounded list.
// Both the topic and the post must exist; a post id from another topic is a
// not-found, never a cross-topic write.
func (s *Store) CreateReply(ctx context.Context, slugInput string, postId domain.PostId, data domain.ReplyCreationData) (domain.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero domain.Reply

	topicSlug, err := s.requireTopic(ctx, slugInput)
	if err != nil {
		return zero, err
	}

	postId = strings.TrimSpace(postId)
	if postId == "" {
		return zero, errors.NewNotFound("Post not found.")
	}

	posts, err := s.loadPosts(ctx, topicSlug)
	if err != nil {
		return zero, err
	}
	target := -1
	for i := range posts {
		if posts[i].Id == postId {
			target = i
			break
		}
	}
	if target < 0 {
		return zero, errors.NewNotFound("Post not found.")
	}

	content := strings.TrimSpace(data.Content)
	if content == "" {
		return zero, errors.NewValidation("Reply content is required.")
	}
	if runeLen(content) > maxReplyContent {
		return zero, errors.NewValidation("Reply is too long (max 1500 characters).")
	}

	reply := domain.Reply{
		Id:      s.newId("r"),
		Content: content,
		Author:  normalizeAuthor(data.Author),
		Date:    s.now(),
	}
	posts[target].Replies = boundedPrepend(posts[target].Replies, reply, maxRepliesPerPost)

	if err := s.savePosts(ctx, topicSlug, posts); err != nil {
		return zero, err
	}
	return reply, nil
}

// requireTopic normalizes slugInput and checks the topic exists.
func (s *Store) requireTopic(ctx context.Context, slugInput string) (domain.TopicSlug, error) {
	normalized := slug.Normalize(slugInput)
	if normalized == "" {
		return "", errors.NewNotFound("Topic not found.")
	}
	topics, err := s.ensureTopics(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if t.Slug == normalized {
			return normalized, nil
		}
	}
	return "", errors.NewNotFound("Topic not found.")
}

package handler

import (
	"context"

	"github.com/femtrack/forum/internal/domain"
)

// ServiceName is reported by the health endpoint so probes can tell this
// API apart from whatever else answers on the candidate base.
const ServiceName = "forum-api"

// ForumStore is what handlers need from the content store; *store.Store
// satisfies it, mocks in tests do too.
type ForumStore interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	CreateTopic(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error)
	ListPosts(ctx context.Context, slugInput string) ([]domain.Post, error)
	CreatePost(ctx context.Context, slugInput string, data domain.PostCreationData) (domain.Post, error)
	CreateReply(ctx context.Context, slugInput string, postId domain.PostId, data domain.ReplyCreationData) (domain.Reply, error)
}

type Handler struct {
	store ForumStore
}

func New(store ForumStore) *Handler {
	return &Handler{store: store}
}

// Package api holds the request/response DTOs of the forum wire contract.
// The server handlers and the failover client both marshal through these
// types, so the two sides cannot drift apart.
package api

import (
	"time"

	"github.com/femtrack/forum/internal/domain"
)

// Request DTOs

type CreateTopicRequest struct {
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

type CreateReplyRequest struct {
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

// Response DTOs

type TopicsResponse struct {
	Topics []domain.Topic `json:"topics"`
}

type TopicResponse struct {
	Topic domain.Topic `json:"topic"`
}

type PostsResponse struct {
	Posts []domain.Post `json:"posts"`
}

type PostResponse struct {
	Post domain.Post `json:"post"`
}

type ReplyResponse struct {
	Reply domain.Reply `json:"reply"`
}

type HealthResponse struct {
	Ok      bool      `json:"ok"`
	Service string    `json:"service"`
	Now     time.Time `json:"now"`
}

// ErrorResponse is the shape of every non-2xx body; the HTTP status carries
// the error kind.
type ErrorResponse struct {
	Error string `json:"error"`
}

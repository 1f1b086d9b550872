package domain

import "time"

// to iterate thru layers: handler -> store -> kv
type TopicCreationData struct {
	Slug        string
	Name        string
	Description string
}

type Topic struct {
	Slug        TopicSlug `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

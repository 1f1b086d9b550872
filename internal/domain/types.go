package domain

type (
	TopicSlug = string
	PostId    = string
	ReplyId   = string
)

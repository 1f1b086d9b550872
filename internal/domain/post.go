package domain

import "time"

type PostCreationData struct {
	Title   string
	Content string
	Author  string
}

type ReplyCreationData struct {
	Content string
	Author  string
}

type Post struct {
	Id      PostId    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Replies []Reply   `json:"replies"`
}

type Reply struct {
	Id      ReplyId   `json:"id"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

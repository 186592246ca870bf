package model

import (
	"time"

	"github.com/google/uuid"
)

type Reply struct {
	ID        uuid.UUID `json:"id"`
	CommentID uuid.UUID `json:"comment_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type FullReply struct {
	Reply     Reply      `json:"reply"`
	Author    CachedUser `json:"author"`
	Reactions []Reaction `json:"reactions"`
}

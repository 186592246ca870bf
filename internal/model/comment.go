package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type FullComment struct {
	Comment   Comment      `json:"comment"`
	Author    CachedUser   `json:"author"`
	Replies   []*FullReply `json:"replies"`
	Reactions []Reaction   `json:"reactions"`
}

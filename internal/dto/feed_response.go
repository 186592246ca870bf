package dto

import (
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

// ReactionSummary is the per-type grouped view of raw reaction rows. Summaries
// are emitted in first-seen order of each type, not sorted.
type ReactionSummary struct {
	Type       model.ReactionType `json:"type"`
	Count      int                `json:"count"`
	HasReacted bool               `json:"has_reacted"`
	Users      []model.CachedUser `json:"users"`
}

type ReplyView struct {
	ID        uuid.UUID         `json:"id"`
	Content   string            `json:"content"`
	User      model.CachedUser  `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
	Reactions []ReactionSummary `json:"reactions"`
}

type CommentView struct {
	ID        uuid.UUID         `json:"id"`
	Content   string            `json:"content"`
	User      model.CachedUser  `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
	Replies   []ReplyView       `json:"replies"`
	Reactions []ReactionSummary `json:"reactions"`
}

type PostView struct {
	ID         uuid.UUID            `json:"id"`
	Content    string               `json:"content"`
	Visibility model.PostVisibility `json:"visibility"`
	User       model.CachedUser     `json:"user"`
	Files      []*model.PostFile    `json:"files"`
	CreatedAt  time.Time            `json:"created_at"`
	Comments   []CommentView        `json:"comments"`
	Reactions  []ReactionSummary    `json:"reactions"`
}

type FeedPage struct {
	Posts []PostView `json:"posts"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

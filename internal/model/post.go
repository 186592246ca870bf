package model

import (
	"time"

	"github.com/google/uuid"
)

type PostVisibility string

const (
	VisibilityPublic  PostVisibility = "PUBLIC"
	VisibilityPrivate PostVisibility = "PRIVATE"
)

func (v PostVisibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type Post struct {
	ID         uuid.UUID      `json:"id"`
	AuthorID   uuid.UUID      `json:"author_id"`
	Content    string         `json:"content"`
	Visibility PostVisibility `json:"visibility"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type PostFile struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// FullPost is a post with everything eagerly loaded: author, files, comments
// (each with author, reactions and replies) and its own reactions.
type FullPost struct {
	Post      Post           `json:"post"`
	Author    CachedUser     `json:"author"`
	Files     []*PostFile    `json:"files"`
	Comments  []*FullComment `json:"comments"`
	Reactions []Reaction     `json:"reactions"`
}

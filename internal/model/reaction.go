package model

import (
	"time"

	"github.com/google/uuid"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionHaha  ReactionType = "HAHA"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// ReactionTarget identifies which of the three reaction relations a reaction
// belongs to. Posts, comments and replies share one toggle algorithm and one
// repository, parameterized by this value.
type ReactionTarget string

const (
	TargetPost    ReactionTarget = "post"
	TargetComment ReactionTarget = "comment"
	TargetReply   ReactionTarget = "reply"
)

func (t ReactionTarget) Valid() bool {
	return t == TargetPost || t == TargetComment || t == TargetReply
}

// Reaction is a single reaction row. At most one row exists per
// (TargetID, UserID) pair, enforced by the relation's primary key.
type Reaction struct {
	TargetID  uuid.UUID    `json:"target_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	User      CachedUser   `json:"user"`
}

// ToggleAction is the outcome of a reaction toggle.
type ToggleAction string

const (
	ActionAdded   ToggleAction = "added"
	ActionUpdated ToggleAction = "updated"
	ActionRemoved ToggleAction = "removed"
)

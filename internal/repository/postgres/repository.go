package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Post interface {
	Create(ctx context.Context, post model.Post, files []*model.PostFile) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	FindFeed(ctx context.Context, requesterID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	CountFeed(ctx context.Context, requesterID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullComment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Reply interface {
	Create(ctx context.Context, reply model.Reply) (*model.Reply, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error)
	FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullReply, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Reaction is one repository for all three reaction relations, selected by
// model.ReactionTarget.
type Reaction interface {
	Find(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) (*model.Reaction, error)
	Create(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error
	UpdateType(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error
	Delete(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) error
	FindByTarget(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID) ([]model.Reaction, error)
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type PostgresRepository struct {
	Post
	Comment
	Reply
	Reaction
	UserCache
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:      newPostRepo(db),
		Comment:   newCommentRepo(db),
		Reply:     newReplyRepo(db),
		Reaction:  newReactionRepo(db),
		UserCache: newUserCacheRepo(db),
	}
}

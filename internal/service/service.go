package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const MAX_LIMIT = 100

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, createDto dto.CreatePostRequest, filesDto []dto.CreatePostFileDto) (*dto.PostView, error)
	GetFeed(ctx context.Context, requesterID uuid.UUID, page int, limit int) (*dto.FeedPage, error)
	GetByID(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID) (*dto.PostView, error)
	Update(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdatePostRequest) (*dto.PostView, error)
	Delete(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, postID uuid.UUID, authorID uuid.UUID, createDto dto.CreateCommentRequest) (*dto.CommentView, error)
	Update(ctx context.Context, commentID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdateCommentRequest) (*dto.CommentView, error)
	Delete(ctx context.Context, commentID uuid.UUID, requesterID uuid.UUID) error
	CreateReply(ctx context.Context, commentID uuid.UUID, authorID uuid.UUID, createDto dto.CreateReplyRequest) (*dto.ReplyView, error)
	UpdateReply(ctx context.Context, replyID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdateReplyRequest) (*dto.ReplyView, error)
	DeleteReply(ctx context.Context, replyID uuid.UUID, requesterID uuid.UUID) error
}

type Reaction interface {
	Toggle(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, requesterID uuid.UUID, reactionType model.ReactionType) (model.ToggleAction, error)
	GetForTarget(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, requesterID uuid.UUID) ([]dto.ReactionSummary, error)
}

type UserCache interface {
	CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	StartConsume(ctx context.Context)
}

type Service struct {
	Post
	Comment
	Reaction
	UserCache
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn) *Service {
	return &Service{
		Post:      newPostService(logger, repo, mq),
		Comment:   newCommentService(logger, repo),
		Reaction:  newReactionService(logger, repo),
		UserCache: newUserCacheService(logger, repo, mq),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	s.UserCache.StartConsume(ctx)
}

// loadOwned fetches an entity for a mutation: a missing row becomes
// notFoundErr, a requester who is not the author becomes ErrForbidden.
// Existence is always checked before ownership.
func loadOwned[T any](
	ctx context.Context,
	logger *zap.Logger,
	find func(context.Context, uuid.UUID) (*T, error),
	id uuid.UUID,
	requesterID uuid.UUID,
	authorID func(*T) uuid.UUID,
	notFoundErr error,
) (*T, error) {
	entity, err := find(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFoundErr
		}
		logger.Sugar().Errorf("failed to find entity(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if authorID(entity) != requesterID {
		return nil, ErrForbidden
	}

	return entity, nil
}

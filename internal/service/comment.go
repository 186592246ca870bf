package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
	}
}

// Create requires the parent post to exist but imposes no ownership check:
// any authenticated user may comment.
func (s *commentService) Create(ctx context.Context, postID uuid.UUID, authorID uuid.UUID, createDto dto.CreateCommentRequest) (*dto.CommentView, error) {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	comment := model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  createDto.Content,
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%s): %s", authorID.String(), postID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.findAndFormatComment(ctx, createdComment.ID, authorID)
}

func (s *commentService) Update(ctx context.Context, commentID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdateCommentRequest) (*dto.CommentView, error) {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Comment.FindByID, commentID, requesterID, func(c *model.Comment) uuid.UUID { return c.AuthorID }, ErrCommentNotFound); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if updateDto.Content != nil {
		updates["content"] = *updateDto.Content
	}

	if err := s.repo.Postgres.Comment.Update(ctx, commentID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update comment(%s): %s", commentID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.findAndFormatComment(ctx, commentID, requesterID)
}

func (s *commentService) Delete(ctx context.Context, commentID uuid.UUID, requesterID uuid.UUID) error {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Comment.FindByID, commentID, requesterID, func(c *model.Comment) uuid.UUID { return c.AuthorID }, ErrCommentNotFound); err != nil {
		return err
	}

	// replies and reactions cascade with it in storage
	if err := s.repo.Postgres.Comment.Delete(ctx, commentID); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%s): %s", commentID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *commentService) CreateReply(ctx context.Context, commentID uuid.UUID, authorID uuid.UUID, createDto dto.CreateReplyRequest) (*dto.ReplyView, error) {
	if _, err := s.repo.Postgres.Comment.FindByID(ctx, commentID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%s): %s", commentID.String(), err.Error())
		return nil, ErrInternal
	}

	reply := model.Reply{
		CommentID: commentID,
		AuthorID:  authorID,
		Content:   createDto.Content,
	}

	createdReply, err := s.repo.Postgres.Reply.Create(ctx, reply)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) reply on comment(%s): %s", authorID.String(), commentID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.findAndFormatReply(ctx, createdReply.ID, authorID)
}

func (s *commentService) UpdateReply(ctx context.Context, replyID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdateReplyRequest) (*dto.ReplyView, error) {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Reply.FindByID, replyID, requesterID, func(r *model.Reply) uuid.UUID { return r.AuthorID }, ErrReplyNotFound); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if updateDto.Content != nil {
		updates["content"] = *updateDto.Content
	}

	if err := s.repo.Postgres.Reply.Update(ctx, replyID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update reply(%s): %s", replyID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.findAndFormatReply(ctx, replyID, requesterID)
}

func (s *commentService) DeleteReply(ctx context.Context, replyID uuid.UUID, requesterID uuid.UUID) error {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Reply.FindByID, replyID, requesterID, func(r *model.Reply) uuid.UUID { return r.AuthorID }, ErrReplyNotFound); err != nil {
		return err
	}

	if err := s.repo.Postgres.Reply.Delete(ctx, replyID); err != nil {
		s.logger.Sugar().Errorf("failed to delete reply(%s): %s", replyID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *commentService) findAndFormatComment(ctx context.Context, commentID uuid.UUID, requesterID uuid.UUID) (*dto.CommentView, error) {
	fullComment, err := s.repo.Postgres.Comment.FindFullByID(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find full comment(%s): %s", commentID.String(), err.Error())
		return nil, ErrInternal
	}

	view := formatComment(fullComment, requesterID)
	return &view, nil
}

func (s *commentService) findAndFormatReply(ctx context.Context, replyID uuid.UUID, requesterID uuid.UUID) (*dto.ReplyView, error) {
	fullReply, err := s.repo.Postgres.Reply.FindFullByID(ctx, replyID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find full reply(%s): %s", replyID.String(), err.Error())
		return nil, ErrInternal
	}

	view := formatReply(fullReply, requesterID)
	return &view, nil
}

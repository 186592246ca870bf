package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type reactionService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newReactionService(logger *zap.Logger, repo *repository.Repository) Reaction {
	return &reactionService{
		logger: logger,
		repo:   repo,
	}
}

// Toggle applies the add/update/remove transition for a (target, user) pair.
// Reacting with the type already held removes the reaction; a different type
// replaces it in place. The relation's (target, user) primary key guarantees
// at most one row per pair; losing the insert race to a concurrent toggle is
// retried once as an update.
func (s *reactionService) Toggle(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, requesterID uuid.UUID, reactionType model.ReactionType) (model.ToggleAction, error) {
	if !reactionType.Valid() {
		return "", ErrInvalidReactionType
	}

	if err := s.checkTargetExists(ctx, target, targetID); err != nil {
		return "", err
	}

	existing, err := s.repo.Postgres.Reaction.Find(ctx, target, targetID, requesterID)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find %s(%s) reaction by user(%s): %s", target, targetID.String(), requesterID.String(), err.Error())
		return "", ErrInternal
	}

	if err == pgx.ErrNoRows {
		if err := s.repo.Postgres.Reaction.Create(ctx, target, targetID, requesterID, reactionType); err != nil {
			if isUniqueViolation(err) {
				// a concurrent toggle won the insert; apply ours as an update
				if err := s.repo.Postgres.Reaction.UpdateType(ctx, target, targetID, requesterID, reactionType); err != nil {
					s.logger.Sugar().Errorf("failed to update %s(%s) reaction by user(%s) after insert race: %s", target, targetID.String(), requesterID.String(), err.Error())
					return "", ErrInternal
				}
				return model.ActionUpdated, nil
			}

			s.logger.Sugar().Errorf("failed to create %s(%s) reaction by user(%s): %s", target, targetID.String(), requesterID.String(), err.Error())
			return "", ErrInternal
		}
		return model.ActionAdded, nil
	}

	if existing.Type == reactionType {
		if err := s.repo.Postgres.Reaction.Delete(ctx, target, targetID, requesterID); err != nil {
			s.logger.Sugar().Errorf("failed to delete %s(%s) reaction by user(%s): %s", target, targetID.String(), requesterID.String(), err.Error())
			return "", ErrInternal
		}
		return model.ActionRemoved, nil
	}

	if err := s.repo.Postgres.Reaction.UpdateType(ctx, target, targetID, requesterID, reactionType); err != nil {
		s.logger.Sugar().Errorf("failed to update %s(%s) reaction by user(%s): %s", target, targetID.String(), requesterID.String(), err.Error())
		return "", ErrInternal
	}
	return model.ActionUpdated, nil
}

func (s *reactionService) GetForTarget(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, requesterID uuid.UUID) ([]dto.ReactionSummary, error) {
	if err := s.checkTargetExists(ctx, target, targetID); err != nil {
		return nil, err
	}

	reactions, err := s.repo.Postgres.Reaction.FindByTarget(ctx, target, targetID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find %s(%s) reactions: %s", target, targetID.String(), err.Error())
		return nil, ErrInternal
	}

	return aggregateReactions(reactions, requesterID), nil
}

func (s *reactionService) checkTargetExists(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID) error {
	var err error
	var notFoundErr error

	switch target {
	case model.TargetPost:
		_, err = s.repo.Postgres.Post.FindByID(ctx, targetID)
		notFoundErr = ErrPostNotFound
	case model.TargetComment:
		_, err = s.repo.Postgres.Comment.FindByID(ctx, targetID)
		notFoundErr = ErrCommentNotFound
	case model.TargetReply:
		_, err = s.repo.Postgres.Reply.FindByID(ctx, targetID)
		notFoundErr = ErrReplyNotFound
	default:
		return ErrInternal
	}

	if err == pgx.ErrNoRows {
		return notFoundErr
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find %s(%s): %s", target, targetID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

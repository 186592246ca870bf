package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reactionRelation maps a target kind onto its relation and foreign-key column.
// The three relations share one schema shape: (target_id, user_id) primary key,
// type, created_at.
type reactionRelation struct {
	table        string
	targetColumn string
}

var reactionRelations = map[model.ReactionTarget]reactionRelation{
	model.TargetPost:    {table: "post_reactions", targetColumn: "post_id"},
	model.TargetComment: {table: "comment_reactions", targetColumn: "comment_id"},
	model.TargetReply:   {table: "reply_reactions", targetColumn: "reply_id"},
}

type reactionRepo struct {
	db *pgxpool.Pool
}

func newReactionRepo(db *pgxpool.Pool) Reaction {
	return &reactionRepo{
		db: db,
	}
}

func (r *reactionRepo) Find(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) (*model.Reaction, error) {
	rel := reactionRelations[target]

	reaction := model.Reaction{TargetID: targetID, UserID: userID}
	if err := r.db.QueryRow(
		ctx,
		"SELECT r.type, r.created_at FROM "+rel.table+" r WHERE r."+rel.targetColumn+" = $1 AND r.user_id = $2",
		targetID,
		userID,
	).Scan(&reaction.Type, &reaction.CreatedAt); err != nil {
		return nil, err
	}

	return &reaction, nil
}

func (r *reactionRepo) Create(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error {
	rel := reactionRelations[target]

	_, err := r.db.Exec(
		ctx,
		"INSERT INTO "+rel.table+"("+rel.targetColumn+", user_id, type, created_at) VALUES($1, $2, $3, $4)",
		targetID,
		userID,
		reactionType,
		time.Now(),
	)
	return err
}

func (r *reactionRepo) UpdateType(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error {
	rel := reactionRelations[target]

	_, err := r.db.Exec(
		ctx,
		"UPDATE "+rel.table+" SET type = $1 WHERE "+rel.targetColumn+" = $2 AND user_id = $3",
		reactionType,
		targetID,
		userID,
	)
	return err
}

func (r *reactionRepo) Delete(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) error {
	rel := reactionRelations[target]

	_, err := r.db.Exec(
		ctx,
		"DELETE FROM "+rel.table+" WHERE "+rel.targetColumn+" = $1 AND user_id = $2",
		targetID,
		userID,
	)
	return err
}

func (r *reactionRepo) FindByTarget(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID) ([]model.Reaction, error) {
	byTarget, err := findReactionsByTargets(ctx, r.db, target, []uuid.UUID{targetID})
	if err != nil {
		return nil, err
	}
	return byTarget[targetID], nil
}

// findReactionsByTargets loads reactions with their reactor summaries for a
// batch of targets in one query, keyed by target id. Rows come back oldest
// first so reactor lists keep a stable order.
func findReactionsByTargets(ctx context.Context, db *pgxpool.Pool, target model.ReactionTarget, targetIDs []uuid.UUID) (map[uuid.UUID][]model.Reaction, error) {
	byTarget := make(map[uuid.UUID][]model.Reaction, len(targetIDs))
	if len(targetIDs) == 0 {
		return byTarget, nil
	}

	rel := reactionRelations[target]

	rows, err := db.Query(
		ctx,
		`SELECT
		r.`+rel.targetColumn+`, r.user_id, r.type, r.created_at, u.first_name, u.last_name, u.email
		FROM `+rel.table+` r
		JOIN cached_users u ON r.user_id = u.id
		WHERE r.`+rel.targetColumn+` = ANY($1)
		ORDER BY r.created_at ASC, r.user_id ASC`,
		targetIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reaction model.Reaction
		if err := rows.Scan(
			&reaction.TargetID,
			&reaction.UserID,
			&reaction.Type,
			&reaction.CreatedAt,
			&reaction.User.FirstName,
			&reaction.User.LastName,
			&reaction.User.Email,
		); err != nil {
			return nil, err
		}
		reaction.User.ID = reaction.UserID

		byTarget[reaction.TargetID] = append(byTarget[reaction.TargetID], reaction)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byTarget, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type replyRepo struct {
	db *pgxpool.Pool
}

func newReplyRepo(db *pgxpool.Pool) Reply {
	return &replyRepo{
		db: db,
	}
}

func (r *replyRepo) Create(ctx context.Context, reply model.Reply) (*model.Reply, error) {
	reply.ID = uuid.New()
	reply.CreatedAt = time.Now()
	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO replies(id, comment_id, author_id, content, created_at) VALUES($1, $2, $3, $4, $5)",
		reply.ID,
		reply.CommentID,
		reply.AuthorID,
		reply.Content,
		reply.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &reply, nil
}

func (r *replyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	var reply model.Reply
	if err := r.db.QueryRow(
		ctx,
		"SELECT r.id, r.comment_id, r.author_id, r.content, r.created_at FROM replies r WHERE r.id = $1",
		id,
	).Scan(
		&reply.ID,
		&reply.CommentID,
		&reply.AuthorID,
		&reply.Content,
		&reply.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &reply, nil
}

func (r *replyRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullReply, error) {
	reply := &model.FullReply{
		Reactions: []model.Reaction{},
	}
	if err := r.db.QueryRow(
		ctx,
		`SELECT
		r.id, r.comment_id, r.author_id, r.content, r.created_at, u.first_name, u.last_name, u.email
		FROM replies r
		JOIN cached_users u ON r.author_id = u.id
		WHERE r.id = $1`,
		id,
	).Scan(
		&reply.Reply.ID,
		&reply.Reply.CommentID,
		&reply.Reply.AuthorID,
		&reply.Reply.Content,
		&reply.Reply.CreatedAt,
		&reply.Author.FirstName,
		&reply.Author.LastName,
		&reply.Author.Email,
	); err != nil {
		return nil, err
	}
	reply.Author.ID = reply.Reply.AuthorID

	reactions, err := findReactionsByTargets(ctx, r.db, model.TargetReply, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if replyReactions, ok := reactions[id]; ok {
		reply.Reactions = replyReactions
	}

	return reply, nil
}

func (r *replyRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return execPartialUpdate(ctx, r.db, "replies", []string{"content"}, id, updates)
}

func (r *replyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM replies WHERE id = $1", id)
	return err
}

func findRepliesByComments(ctx context.Context, db *pgxpool.Pool, commentIDs []uuid.UUID) (map[uuid.UUID][]*model.FullReply, []uuid.UUID, error) {
	byComment := make(map[uuid.UUID][]*model.FullReply, len(commentIDs))
	if len(commentIDs) == 0 {
		return byComment, nil, nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT
		r.id, r.comment_id, r.author_id, r.content, r.created_at, u.first_name, u.last_name, u.email
		FROM replies r
		JOIN cached_users u ON r.author_id = u.id
		WHERE r.comment_id = ANY($1)
		ORDER BY r.created_at ASC, r.id ASC`,
		commentIDs,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var replyIDs []uuid.UUID
	for rows.Next() {
		reply := &model.FullReply{
			Reactions: []model.Reaction{},
		}
		if err := rows.Scan(
			&reply.Reply.ID,
			&reply.Reply.CommentID,
			&reply.Reply.AuthorID,
			&reply.Reply.Content,
			&reply.Reply.CreatedAt,
			&reply.Author.FirstName,
			&reply.Author.LastName,
			&reply.Author.Email,
		); err != nil {
			return nil, nil, err
		}
		reply.Author.ID = reply.Reply.AuthorID

		byComment[reply.Reply.CommentID] = append(byComment[reply.Reply.CommentID], reply)
		replyIDs = append(replyIDs, reply.Reply.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return byComment, replyIDs, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO comments(id, post_id, author_id, content, created_at) VALUES($1, $2, $3, $4, $5)",
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(
		ctx,
		"SELECT c.id, c.post_id, c.author_id, c.content, c.created_at FROM comments c WHERE c.id = $1",
		id,
	).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullComment, error) {
	comment := &model.FullComment{
		Replies:   []*model.FullReply{},
		Reactions: []model.Reaction{},
	}
	if err := r.db.QueryRow(
		ctx,
		`SELECT
		c.id, c.post_id, c.author_id, c.content, c.created_at, u.first_name, u.last_name, u.email
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		WHERE c.id = $1`,
		id,
	).Scan(
		&comment.Comment.ID,
		&comment.Comment.PostID,
		&comment.Comment.AuthorID,
		&comment.Comment.Content,
		&comment.Comment.CreatedAt,
		&comment.Author.FirstName,
		&comment.Author.LastName,
		&comment.Author.Email,
	); err != nil {
		return nil, err
	}
	comment.Author.ID = comment.Comment.AuthorID

	replies, replyIDs, err := findRepliesByComments(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if commentReplies, ok := replies[id]; ok {
		comment.Replies = commentReplies
	}

	replyReactions, err := findReactionsByTargets(ctx, r.db, model.TargetReply, replyIDs)
	if err != nil {
		return nil, err
	}
	for _, reply := range comment.Replies {
		if reactions, ok := replyReactions[reply.Reply.ID]; ok {
			reply.Reactions = reactions
		}
	}

	reactions, err := findReactionsByTargets(ctx, r.db, model.TargetComment, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if commentReactions, ok := reactions[id]; ok {
		comment.Reactions = commentReactions
	}

	return comment, nil
}

func (r *commentRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return execPartialUpdate(ctx, r.db, "comments", []string{"content"}, id, updates)
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	return err
}

// findCommentsByPosts loads comments with authors for a batch of posts, keyed
// by post id, oldest first. The flat list of comment ids comes back alongside
// for reply and reaction batch loads.
func findCommentsByPosts(ctx context.Context, db *pgxpool.Pool, postIDs []uuid.UUID) (map[uuid.UUID][]*model.FullComment, []uuid.UUID, error) {
	byPost := make(map[uuid.UUID][]*model.FullComment, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil, nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT
		c.id, c.post_id, c.author_id, c.content, c.created_at, u.first_name, u.last_name, u.email
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC`,
		postIDs,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var commentIDs []uuid.UUID
	for rows.Next() {
		comment := &model.FullComment{
			Replies:   []*model.FullReply{},
			Reactions: []model.Reaction{},
		}
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.PostID,
			&comment.Comment.AuthorID,
			&comment.Comment.Content,
			&comment.Comment.CreatedAt,
			&comment.Author.FirstName,
			&comment.Author.LastName,
			&comment.Author.Email,
		); err != nil {
			return nil, nil, err
		}
		comment.Author.ID = comment.Comment.AuthorID

		byPost[comment.Comment.PostID] = append(byPost[comment.Comment.PostID], comment)
		commentIDs = append(commentIDs, comment.Comment.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return byPost, commentIDs, nil
}

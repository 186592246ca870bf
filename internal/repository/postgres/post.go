package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// feedVisibilityCond is shared by FindFeed and CountFeed so the page and the
// total are always computed against the identical predicate.
const feedVisibilityCond = "(p.visibility = 'PUBLIC' OR p.author_id = $1)"

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post, files []*model.PostFile) (*model.Post, error) {
	now := time.Now()
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		"INSERT INTO posts(id, author_id, content, visibility, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6)",
		post.ID,
		post.AuthorID,
		post.Content,
		post.Visibility,
		post.CreatedAt,
		post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, file := range files {
		file.ID = uuid.New()
		file.PostID = post.ID
		file.CreatedAt = now
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO post_files(id, post_id, file_name, file_path, created_at) VALUES($1, $2, $3, $4, $5)",
			file.ID,
			file.PostID,
			file.FileName,
			file.FilePath,
			file.CreatedAt,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(
		ctx,
		"SELECT p.id, p.author_id, p.content, p.visibility, p.created_at, p.updated_at FROM posts p WHERE p.id = $1",
		id,
	).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.Visibility,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	posts, err := r.queryFullPosts(
		ctx,
		`SELECT
		p.id, p.author_id, p.content, p.visibility, p.created_at, p.updated_at, u.first_name, u.last_name, u.email
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		WHERE p.id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, pgx.ErrNoRows
	}

	return posts[0], nil
}

func (r *postRepo) FindFeed(ctx context.Context, requesterID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	return r.queryFullPosts(
		ctx,
		`SELECT
		p.id, p.author_id, p.content, p.visibility, p.created_at, p.updated_at, u.first_name, u.last_name, u.email
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		WHERE `+feedVisibilityCond+`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2
		OFFSET $3`,
		requesterID,
		limit,
		offset,
	)
}

func (r *postRepo) CountFeed(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM posts p WHERE "+feedVisibilityCond,
		requesterID,
	).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return execPartialUpdate(ctx, r.db, "posts", []string{"content", "visibility", "updated_at"}, id, updates)
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// comments, replies, files and reactions go with it via ON DELETE CASCADE
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

// queryFullPosts runs a post+author query and eagerly attaches files, the
// comment/reply tree and reactions at every level.
func (r *postRepo) queryFullPosts(ctx context.Context, query string, args ...interface{}) ([]*model.FullPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FullPost
	for rows.Next() {
		post := &model.FullPost{
			Files:     []*model.PostFile{},
			Comments:  []*model.FullComment{},
			Reactions: []model.Reaction{},
		}
		if err := rows.Scan(
			&post.Post.ID,
			&post.Post.AuthorID,
			&post.Post.Content,
			&post.Post.Visibility,
			&post.Post.CreatedAt,
			&post.Post.UpdatedAt,
			&post.Author.FirstName,
			&post.Author.LastName,
			&post.Author.Email,
		); err != nil {
			return nil, err
		}
		post.Author.ID = post.Post.AuthorID

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTrees(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) loadTrees(ctx context.Context, posts []*model.FullPost) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	byID := make(map[uuid.UUID]*model.FullPost, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.Post.ID)
		byID[post.Post.ID] = post
	}

	files, err := findFilesByPosts(ctx, r.db, postIDs)
	if err != nil {
		return err
	}
	for postID, postFiles := range files {
		byID[postID].Files = postFiles
	}

	comments, commentIDs, err := findCommentsByPosts(ctx, r.db, postIDs)
	if err != nil {
		return err
	}

	replies, replyIDs, err := findRepliesByComments(ctx, r.db, commentIDs)
	if err != nil {
		return err
	}

	postReactions, err := findReactionsByTargets(ctx, r.db, model.TargetPost, postIDs)
	if err != nil {
		return err
	}
	commentReactions, err := findReactionsByTargets(ctx, r.db, model.TargetComment, commentIDs)
	if err != nil {
		return err
	}
	replyReactions, err := findReactionsByTargets(ctx, r.db, model.TargetReply, replyIDs)
	if err != nil {
		return err
	}

	for postID, postComments := range comments {
		for _, comment := range postComments {
			if commentReplies, ok := replies[comment.Comment.ID]; ok {
				comment.Replies = commentReplies
			}
			for _, reply := range comment.Replies {
				if reactions, ok := replyReactions[reply.Reply.ID]; ok {
					reply.Reactions = reactions
				}
			}
			if reactions, ok := commentReactions[comment.Comment.ID]; ok {
				comment.Reactions = reactions
			}
		}
		byID[postID].Comments = postComments
	}

	for postID, reactions := range postReactions {
		byID[postID].Reactions = reactions
	}

	return nil
}

func findFilesByPosts(ctx context.Context, db *pgxpool.Pool, postIDs []uuid.UUID) (map[uuid.UUID][]*model.PostFile, error) {
	byPost := make(map[uuid.UUID][]*model.PostFile, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	rows, err := db.Query(
		ctx,
		`SELECT
		f.id, f.post_id, f.file_name, f.file_path, f.created_at
		FROM post_files f
		WHERE f.post_id = ANY($1)
		ORDER BY f.created_at ASC, f.id ASC`,
		postIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var file model.PostFile
		if err := rows.Scan(
			&file.ID,
			&file.PostID,
			&file.FileName,
			&file.FilePath,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}

		byPost[file.PostID] = append(byPost[file.PostID], &file)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byPost, nil
}

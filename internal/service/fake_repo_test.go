package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type reactionKey struct {
	targetID uuid.UUID
	userID   uuid.UUID
}

// fakeStore is an in-memory stand-in for postgres, with the same cascade and
// uniqueness behavior the schema enforces. The per-entity repositories below
// all share one store.
type fakeStore struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]model.CachedUser
	posts     map[uuid.UUID]*model.Post
	files     map[uuid.UUID][]*model.PostFile
	comments  map[uuid.UUID]*model.Comment
	replies   map[uuid.UUID]*model.Reply
	reactions map[model.ReactionTarget]map[reactionKey]*model.Reaction

	// reactionFindMissOnce makes the next reaction Find report no row even if
	// one exists, simulating a concurrent toggle winning the insert race.
	reactionFindMissOnce bool

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]model.CachedUser),
		posts:    make(map[uuid.UUID]*model.Post),
		files:    make(map[uuid.UUID][]*model.PostFile),
		comments: make(map[uuid.UUID]*model.Comment),
		replies:  make(map[uuid.UUID]*model.Reply),
		reactions: map[model.ReactionTarget]map[reactionKey]*model.Reaction{
			model.TargetPost:    {},
			model.TargetComment: {},
			model.TargetReply:   {},
		},
		now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:      &fakePostRepo{store},
			Comment:   &fakeCommentRepo{store},
			Reply:     &fakeReplyRepo{store},
			Reaction:  &fakeReactionRepo{store},
			UserCache: &fakeUserCacheRepo{store},
		},
	}
	return New(zap.NewNop(), repo, nil), store
}

func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

// === seeding helpers ===

func (s *fakeStore) addUser(firstName string) model.CachedUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.CachedUser{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  "Doe",
		Email:     firstName + "@example.com",
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addPost(authorID uuid.UUID, visibility model.PostVisibility, content string) *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	post := &model.Post{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Content:    content,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.posts[post.ID] = post
	return post
}

func (s *fakeStore) addComment(postID uuid.UUID, authorID uuid.UUID, content string) *model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := &model.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.tick(),
	}
	s.comments[comment.ID] = comment
	return comment
}

func (s *fakeStore) addReply(commentID uuid.UUID, authorID uuid.UUID, content string) *model.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := &model.Reply{
		ID:        uuid.New(),
		CommentID: commentID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.tick(),
	}
	s.replies[reply.ID] = reply
	return reply
}

func (s *fakeStore) addReaction(target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reactions[target][reactionKey{targetID, userID}] = &model.Reaction{
		TargetID:  targetID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: s.tick(),
	}
}

func (s *fakeStore) reactionCount(target model.ReactionTarget, targetID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key := range s.reactions[target] {
		if key.targetID == targetID {
			count++
		}
	}
	return count
}

// === postgres.Post ===

type fakePostRepo struct {
	store *fakeStore
}

func (r *fakePostRepo) Create(ctx context.Context, post model.Post, files []*model.PostFile) (*model.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = &post

	for _, file := range files {
		file.ID = uuid.New()
		file.PostID = post.ID
		file.CreatedAt = now
		s.files[post.ID] = append(s.files[post.ID], file)
	}

	return &post, nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.buildFullPost(post), nil
}

func (r *fakePostRepo) FindFeed(ctx context.Context, requesterID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := s.visiblePosts(requesterID)

	if offset >= len(visible) {
		return []*model.FullPost{}, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}

	page := make([]*model.FullPost, 0, end-offset)
	for _, post := range visible[offset:end] {
		page = append(page, s.buildFullPost(post))
	}
	return page, nil
}

func (r *fakePostRepo) CountFeed(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.visiblePosts(requesterID))), nil
}

func (r *fakePostRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil
	}
	if content, ok := updates["content"].(string); ok {
		post.Content = content
	}
	if visibility, ok := updates["visibility"].(model.PostVisibility); ok {
		post.Visibility = visibility
	}
	if updatedAt, ok := updates["updated_at"].(time.Time); ok {
		post.UpdatedAt = updatedAt
	}
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.posts, id)
	delete(s.files, id)
	for key := range s.reactions[model.TargetPost] {
		if key.targetID == id {
			delete(s.reactions[model.TargetPost], key)
		}
	}
	for commentID, comment := range s.comments {
		if comment.PostID == id {
			s.deleteCommentLocked(commentID)
		}
	}
	return nil
}

// === postgres.Comment ===

type fakeCommentRepo struct {
	store *fakeStore
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = uuid.New()
	comment.CreatedAt = s.tick()
	s.comments[comment.ID] = &comment
	return &comment, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullComment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.buildFullComment(comment), nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil
	}
	if content, ok := updates["content"].(string); ok {
		comment.Content = content
	}
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteCommentLocked(id)
	return nil
}

func (s *fakeStore) deleteCommentLocked(id uuid.UUID) {
	delete(s.comments, id)
	for key := range s.reactions[model.TargetComment] {
		if key.targetID == id {
			delete(s.reactions[model.TargetComment], key)
		}
	}
	for replyID, reply := range s.replies {
		if reply.CommentID == id {
			s.deleteReplyLocked(replyID)
		}
	}
}

// === postgres.Reply ===

type fakeReplyRepo struct {
	store *fakeStore
}

func (r *fakeReplyRepo) Create(ctx context.Context, reply model.Reply) (*model.Reply, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	reply.ID = uuid.New()
	reply.CreatedAt = s.tick()
	s.replies[reply.ID] = &reply
	return &reply, nil
}

func (r *fakeReplyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	reply, ok := s.replies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *reply
	return &copied, nil
}

func (r *fakeReplyRepo) FindFullByID(ctx context.Context, id uuid.UUID) (*model.FullReply, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	reply, ok := s.replies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.buildFullReply(reply), nil
}

func (r *fakeReplyRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.replies[id]
	if !ok {
		return nil
	}
	if content, ok := updates["content"].(string); ok {
		reply.Content = content
	}
	return nil
}

func (r *fakeReplyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteReplyLocked(id)
	return nil
}

func (s *fakeStore) deleteReplyLocked(id uuid.UUID) {
	delete(s.replies, id)
	for key := range s.reactions[model.TargetReply] {
		if key.targetID == id {
			delete(s.reactions[model.TargetReply], key)
		}
	}
}

// === postgres.Reaction ===

type fakeReactionRepo struct {
	store *fakeStore
}

func (r *fakeReactionRepo) Find(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) (*model.Reaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reactionFindMissOnce {
		s.reactionFindMissOnce = false
		return nil, pgx.ErrNoRows
	}

	reaction, ok := s.reactions[target][reactionKey{targetID, userID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *reaction
	return &copied, nil
}

func (r *fakeReactionRepo) Create(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := reactionKey{targetID, userID}
	if _, exists := s.reactions[target][key]; exists {
		return &pgconn.PgError{Code: "23505"}
	}

	s.reactions[target][key] = &model.Reaction{
		TargetID:  targetID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: s.tick(),
	}
	return nil
}

func (r *fakeReactionRepo) UpdateType(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID, reactionType model.ReactionType) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if reaction, ok := s.reactions[target][reactionKey{targetID, userID}]; ok {
		reaction.Type = reactionType
	}
	return nil
}

func (r *fakeReactionRepo) Delete(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID, userID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reactions[target], reactionKey{targetID, userID})
	return nil
}

func (r *fakeReactionRepo) FindByTarget(ctx context.Context, target model.ReactionTarget, targetID uuid.UUID) ([]model.Reaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reactionsFor(target, targetID), nil
}

// === postgres.UserCache ===

type fakeUserCacheRepo struct {
	store *fakeStore
}

func (r *fakeUserCacheRepo) Create(ctx context.Context, cachedUser model.CachedUser) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[cachedUser.ID] = cachedUser
	return nil
}

func (r *fakeUserCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeUserCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

// === tree assembly ===

func (s *fakeStore) visiblePosts(requesterID uuid.UUID) []*model.Post {
	visible := make([]*model.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if post.Visibility == model.VisibilityPublic || post.AuthorID == requesterID {
			visible = append(visible, post)
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if !visible[i].CreatedAt.Equal(visible[j].CreatedAt) {
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		}
		return visible[i].ID.String() > visible[j].ID.String()
	})
	return visible
}

func (s *fakeStore) buildFullPost(post *model.Post) *model.FullPost {
	full := &model.FullPost{
		Post:      *post,
		Author:    s.users[post.AuthorID],
		Files:     []*model.PostFile{},
		Comments:  []*model.FullComment{},
		Reactions: s.reactionsFor(model.TargetPost, post.ID),
	}

	if files, ok := s.files[post.ID]; ok {
		full.Files = files
	}

	var comments []*model.Comment
	for _, comment := range s.comments {
		if comment.PostID == post.ID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	for _, comment := range comments {
		full.Comments = append(full.Comments, s.buildFullComment(comment))
	}

	return full
}

func (s *fakeStore) buildFullComment(comment *model.Comment) *model.FullComment {
	full := &model.FullComment{
		Comment:   *comment,
		Author:    s.users[comment.AuthorID],
		Replies:   []*model.FullReply{},
		Reactions: s.reactionsFor(model.TargetComment, comment.ID),
	}

	var replies []*model.Reply
	for _, reply := range s.replies {
		if reply.CommentID == comment.ID {
			replies = append(replies, reply)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	for _, reply := range replies {
		full.Replies = append(full.Replies, s.buildFullReply(reply))
	}

	return full
}

func (s *fakeStore) buildFullReply(reply *model.Reply) *model.FullReply {
	return &model.FullReply{
		Reply:     *reply,
		Author:    s.users[reply.AuthorID],
		Reactions: s.reactionsFor(model.TargetReply, reply.ID),
	}
}

func (s *fakeStore) reactionsFor(target model.ReactionTarget, targetID uuid.UUID) []model.Reaction {
	reactions := []model.Reaction{}
	for key, reaction := range s.reactions[target] {
		if key.targetID != targetID {
			continue
		}
		copied := *reaction
		copied.User = s.users[copied.UserID]
		reactions = append(reactions, copied)
	}

	sort.Slice(reactions, func(i, j int) bool {
		return reactions[i].CreatedAt.Before(reactions[j].CreatedAt)
	})
	return reactions
}

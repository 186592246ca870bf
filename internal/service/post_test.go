package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_DefaultsToPublic(t *testing.T) {
	svc, store := newTestService(t)

	author := store.addUser("alice")

	view, err := svc.Post.Create(context.Background(), author.ID, dto.CreatePostRequest{Content: "hello"}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.VisibilityPublic, view.Visibility)
	assert.Equal(t, "hello", view.Content)
	assert.Equal(t, author, view.User)
	assert.Empty(t, view.Comments)
	assert.Empty(t, view.Reactions)
}

func TestCreatePost_InvalidVisibility(t *testing.T) {
	svc, store := newTestService(t)

	author := store.addUser("alice")

	_, err := svc.Post.Create(context.Background(), author.ID, dto.CreatePostRequest{
		Content:    "hello",
		Visibility: "FRIENDS_ONLY",
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPostVisibility)
}

func TestGetFeed_PrivatePostsOnlyVisibleToAuthor(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	store.addPost(alice.ID, model.VisibilityPublic, "public post")
	private := store.addPost(alice.ID, model.VisibilityPrivate, "private post")

	alicePage, err := svc.Post.GetFeed(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), alicePage.Total)
	require.Len(t, alicePage.Posts, 2)

	bobPage, err := svc.Post.GetFeed(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobPage.Total)
	require.Len(t, bobPage.Posts, 1)
	assert.NotEqual(t, private.ID, bobPage.Posts[0].ID)
}

func TestGetFeed_NewestFirst(t *testing.T) {
	svc, store := newTestService(t)

	author := store.addUser("alice")
	first := store.addPost(author.ID, model.VisibilityPublic, "first")
	second := store.addPost(author.ID, model.VisibilityPublic, "second")
	third := store.addPost(author.ID, model.VisibilityPublic, "third")

	page, err := svc.Post.GetFeed(context.Background(), author.ID, 1, 10)
	require.NoError(t, err)

	require.Len(t, page.Posts, 3)
	assert.Equal(t, third.ID, page.Posts[0].ID)
	assert.Equal(t, second.ID, page.Posts[1].ID)
	assert.Equal(t, first.ID, page.Posts[2].ID)
}

func TestGetFeed_Pagination(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	author := store.addUser("alice")
	for i := 0; i < 25; i++ {
		store.addPost(author.ID, model.VisibilityPublic, fmt.Sprintf("post %d", i))
	}

	page2, err := svc.Post.GetFeed(ctx, author.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page2.Total)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, 10, page2.Limit)
	assert.Len(t, page2.Posts, 10)
	assert.Equal(t, "post 14", page2.Posts[0].Content)

	page3, err := svc.Post.GetFeed(ctx, author.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 5)
	assert.Equal(t, "post 0", page3.Posts[4].Content)

	empty, err := svc.Post.GetFeed(ctx, author.ID, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
	assert.Equal(t, int64(25), empty.Total)
}

func TestGetFeed_NormalizesPageAndLimit(t *testing.T) {
	svc, store := newTestService(t)

	author := store.addUser("alice")
	store.addPost(author.ID, model.VisibilityPublic, "hello")

	page, err := svc.Post.GetFeed(context.Background(), author.ID, -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Posts, 1)

	capped, err := svc.Post.GetFeed(context.Background(), author.ID, 1, 5000)
	require.NoError(t, err)
	assert.Equal(t, MAX_LIMIT, capped.Limit)
}

func TestGetFeed_IncludesFullTree(t *testing.T) {
	svc, store := newTestService(t)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	post := store.addPost(alice.ID, model.VisibilityPublic, "hello")
	comment := store.addComment(post.ID, bob.ID, "first comment")
	reply := store.addReply(comment.ID, alice.ID, "a reply")
	store.addReaction(model.TargetPost, post.ID, bob.ID, model.ReactionLike)
	store.addReaction(model.TargetComment, comment.ID, alice.ID, model.ReactionLove)
	store.addReaction(model.TargetReply, reply.ID, bob.ID, model.ReactionHaha)

	page, err := svc.Post.GetFeed(context.Background(), bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	postView := page.Posts[0]
	require.Len(t, postView.Reactions, 1)
	assert.Equal(t, model.ReactionLike, postView.Reactions[0].Type)
	assert.True(t, postView.Reactions[0].HasReacted)

	require.Len(t, postView.Comments, 1)
	commentView := postView.Comments[0]
	assert.Equal(t, comment.ID, commentView.ID)
	assert.Equal(t, bob, commentView.User)
	require.Len(t, commentView.Reactions, 1)
	assert.Equal(t, model.ReactionLove, commentView.Reactions[0].Type)
	assert.False(t, commentView.Reactions[0].HasReacted)

	require.Len(t, commentView.Replies, 1)
	replyView := commentView.Replies[0]
	assert.Equal(t, reply.ID, replyView.ID)
	require.Len(t, replyView.Reactions, 1)
	assert.Equal(t, model.ReactionHaha, replyView.Reactions[0].Type)
	assert.True(t, replyView.Reactions[0].HasReacted)
}

func TestGetPostByID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	private := store.addPost(alice.ID, model.VisibilityPrivate, "secret")

	_, err := svc.Post.GetByID(ctx, uuid.New(), alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Post.GetByID(ctx, private.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	view, err := svc.Post.GetByID(ctx, private.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, private.ID, view.ID)
}

func TestUpdatePost_PartialPatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	alice := store.addUser("alice")
	post := store.addPost(alice.ID, model.VisibilityPrivate, "draft")

	content := "final"
	view, err := svc.Post.Update(ctx, post.ID, alice.ID, dto.UpdatePostRequest{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "final", view.Content)
	assert.Equal(t, model.VisibilityPrivate, view.Visibility)

	visibility := model.VisibilityPublic
	view, err = svc.Post.Update(ctx, post.ID, alice.ID, dto.UpdatePostRequest{Visibility: &visibility})
	require.NoError(t, err)

	assert.Equal(t, "final", view.Content)
	assert.Equal(t, model.VisibilityPublic, view.Visibility)
}

func TestUpdatePost_Errors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	post := store.addPost(alice.ID, model.VisibilityPublic, "hello")

	content := "edited"
	_, err := svc.Post.Update(ctx, uuid.New(), alice.ID, dto.UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Post.Update(ctx, post.ID, bob.ID, dto.UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, ErrForbidden)

	visibility := model.PostVisibility("FRIENDS_ONLY")
	_, err = svc.Post.Update(ctx, post.ID, alice.ID, dto.UpdatePostRequest{Visibility: &visibility})
	assert.ErrorIs(t, err, ErrInvalidPostVisibility)
}

func TestDeletePost(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	post := store.addPost(alice.ID, model.VisibilityPublic, "hello")
	comment := store.addComment(post.ID, bob.ID, "a comment")
	reply := store.addReply(comment.ID, alice.ID, "a reply")
	store.addReaction(model.TargetPost, post.ID, bob.ID, model.ReactionLike)
	store.addReaction(model.TargetReply, reply.ID, bob.ID, model.ReactionWow)

	err := svc.Post.Delete(ctx, post.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Post.Delete(ctx, uuid.New(), alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, svc.Post.Delete(ctx, post.ID, alice.ID))

	// children and their reactions go with the post
	_, err = svc.Post.GetByID(ctx, post.ID, alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Empty(t, store.comments)
	assert.Empty(t, store.replies)
	assert.Equal(t, 0, store.reactionCount(model.TargetPost, post.ID))
	assert.Equal(t, 0, store.reactionCount(model.TargetReply, reply.ID))
}

package service

import (
	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

// aggregateReactions groups raw reaction rows by type into summaries. Groups
// are emitted in first-seen order of each type, never sorted; reactor lists
// keep input order. Uniqueness of (user, target) is guaranteed by the storage
// constraint, so no deduplication happens here.
func aggregateReactions(reactions []model.Reaction, requesterID uuid.UUID) []dto.ReactionSummary {
	summaries := []dto.ReactionSummary{}
	index := make(map[model.ReactionType]int)

	for _, reaction := range reactions {
		i, ok := index[reaction.Type]
		if !ok {
			i = len(summaries)
			index[reaction.Type] = i
			summaries = append(summaries, dto.ReactionSummary{
				Type:  reaction.Type,
				Users: []model.CachedUser{},
			})
		}

		summaries[i].Count++
		summaries[i].Users = append(summaries[i].Users, reaction.User)
		if reaction.UserID == requesterID {
			summaries[i].HasReacted = true
		}
	}

	return summaries
}

// formatPost shapes an eagerly loaded post into its client view, aggregating
// reactions independently at post, comment and reply level. Children are kept
// in the order the repository returns them (oldest first).
func formatPost(post *model.FullPost, requesterID uuid.UUID) *dto.PostView {
	comments := make([]dto.CommentView, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, formatComment(comment, requesterID))
	}

	files := post.Files
	if files == nil {
		files = []*model.PostFile{}
	}

	return &dto.PostView{
		ID:         post.Post.ID,
		Content:    post.Post.Content,
		Visibility: post.Post.Visibility,
		User:       post.Author,
		Files:      files,
		CreatedAt:  post.Post.CreatedAt,
		Comments:   comments,
		Reactions:  aggregateReactions(post.Reactions, requesterID),
	}
}

func formatComment(comment *model.FullComment, requesterID uuid.UUID) dto.CommentView {
	replies := make([]dto.ReplyView, 0, len(comment.Replies))
	for _, reply := range comment.Replies {
		replies = append(replies, formatReply(reply, requesterID))
	}

	return dto.CommentView{
		ID:        comment.Comment.ID,
		Content:   comment.Comment.Content,
		User:      comment.Author,
		CreatedAt: comment.Comment.CreatedAt,
		Replies:   replies,
		Reactions: aggregateReactions(comment.Reactions, requesterID),
	}
}

func formatReply(reply *model.FullReply, requesterID uuid.UUID) dto.ReplyView {
	return dto.ReplyView{
		ID:        reply.Reply.ID,
		Content:   reply.Reply.Content,
		User:      reply.Author,
		CreatedAt: reply.Reply.CreatedAt,
		Reactions: aggregateReactions(reply.Reactions, requesterID),
	}
}

package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsToggleReaction(c *gin.Context) {
	h.toggleReaction(c, model.TargetPost, "postID")
}

func (h *Handler) commentsToggleReaction(c *gin.Context) {
	h.toggleReaction(c, model.TargetComment, "commentID")
}

func (h *Handler) repliesToggleReaction(c *gin.Context) {
	h.toggleReaction(c, model.TargetReply, "replyID")
}

func (h *Handler) postsGetReactions(c *gin.Context) {
	h.getReactions(c, model.TargetPost, "postID")
}

func (h *Handler) commentsGetReactions(c *gin.Context) {
	h.getReactions(c, model.TargetComment, "commentID")
}

func (h *Handler) repliesGetReactions(c *gin.Context) {
	h.getReactions(c, model.TargetReply, "replyID")
}

func (h *Handler) toggleReaction(c *gin.Context, target model.ReactionTarget, param string) {
	user := h.getCachedUserFromRequest(c)

	targetID, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	var input dto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	action, err := h.services.Reaction.Toggle(c.Request.Context(), target, targetID, user.ID, input.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleReactionResponse{Action: action})
}

func (h *Handler) getReactions(c *gin.Context, target model.ReactionTarget, param string) {
	user := h.getCachedUserFromRequest(c)

	targetID, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	reactions, err := h.services.Reaction.GetForTarget(c.Request.Context(), target, targetID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reactions)
}

package dto

import "github.com/BloggingApp/feed-service/internal/model"

type ToggleReactionRequest struct {
	Type model.ReactionType `json:"type" binding:"required"`
}

type ToggleReactionResponse struct {
	Action model.ToggleAction `json:"action"`
}

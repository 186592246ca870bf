package dto

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateCommentRequest struct {
	Content *string `json:"content"`
}

type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateReplyRequest struct {
	Content *string `json:"content"`
}

package dto

import (
	"mime/multipart"

	"github.com/BloggingApp/feed-service/internal/model"
)

type CreatePostRequest struct {
	Content    string               `form:"content" binding:"required,min=1"`
	Visibility model.PostVisibility `form:"visibility"`
}

type CreatePostFileDto struct {
	FileHeader *multipart.FileHeader
}

type UpdatePostRequest struct {
	Content    *string               `json:"content"`
	Visibility *model.PostVisibility `json:"visibility"`
}

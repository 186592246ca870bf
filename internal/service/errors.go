package service

import "errors"

var (
	ErrInternal                 = errors.New("internal server error")
	ErrPostNotFound             = errors.New("post not found")
	ErrCommentNotFound          = errors.New("comment not found")
	ErrReplyNotFound            = errors.New("reply not found")
	ErrForbidden                = errors.New("you do not have permission to perform this action")
	ErrInvalidReactionType      = errors.New("invalid reaction type")
	ErrInvalidPostVisibility    = errors.New("invalid post visibility")
	ErrFailedToUploadFileToCDN  = errors.New("failed to upload post file to CDN")
)

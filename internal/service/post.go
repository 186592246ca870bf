package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/rabbitmq"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type postService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	mq         *rabbitmq.MQConn
	httpClient *http.Client
}

func newPostService(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn) Post {
	return &postService{
		logger:     logger,
		repo:       repo,
		mq:         mq,
		httpClient: &http.Client{},
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, createDto dto.CreatePostRequest, filesDto []dto.CreatePostFileDto) (*dto.PostView, error) {
	visibility := createDto.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, ErrInvalidPostVisibility
	}

	var files []*model.PostFile
	for _, fileDto := range filesDto {
		file, err := fileDto.FileHeader.Open()
		if err != nil {
			s.logger.Sugar().Errorf("failed to open file: %s", err.Error())
			return nil, ErrInternal
		}
		defer file.Close()

		uploadPath := "post-files"

		returnedURL, err := s.uploadFileToCDN(uploadPath, file, fileDto.FileHeader)
		if err != nil {
			return nil, err
		}

		files = append(files, &model.PostFile{FileName: fileDto.FileHeader.Filename, FilePath: returnedURL})
	}

	post := model.Post{
		AuthorID:   authorID,
		Content:    createDto.Content,
		Visibility: visibility,
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post, files)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.publishPostCreated(ctx, createdPost)

	fullPost, err := s.repo.Postgres.Post.FindFullByID(ctx, createdPost.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find created post(%s): %s", createdPost.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return formatPost(fullPost, authorID), nil
}

func (s *postService) GetFeed(ctx context.Context, requesterID uuid.UUID, page int, limit int) (*dto.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	maxLimit(&limit)

	offset := (page - 1) * limit

	posts, err := s.repo.Postgres.Post.FindFeed(ctx, requesterID, limit, offset)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find user(%s) feed: %s", requesterID.String(), err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.Post.CountFeed(ctx, requesterID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count user(%s) feed: %s", requesterID.String(), err.Error())
		return nil, ErrInternal
	}

	views := make([]dto.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, *formatPost(post, requesterID))
	}

	return &dto.FeedPage{
		Posts: views,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *postService) GetByID(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID) (*dto.PostView, error) {
	post, err := s.repo.Postgres.Post.FindFullByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	if post.Post.Visibility == model.VisibilityPrivate && post.Post.AuthorID != requesterID {
		return nil, ErrForbidden
	}

	return formatPost(post, requesterID), nil
}

func (s *postService) Update(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID, updateDto dto.UpdatePostRequest) (*dto.PostView, error) {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Post.FindByID, postID, requesterID, func(p *model.Post) uuid.UUID { return p.AuthorID }, ErrPostNotFound); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if updateDto.Content != nil {
		updates["content"] = *updateDto.Content
	}
	if updateDto.Visibility != nil {
		if !updateDto.Visibility.Valid() {
			return nil, ErrInvalidPostVisibility
		}
		updates["visibility"] = *updateDto.Visibility
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%s): %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	updatedPost, err := s.repo.Postgres.Post.FindFullByID(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find updated post(%s): %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	return formatPost(updatedPost, requesterID), nil
}

func (s *postService) Delete(ctx context.Context, postID uuid.UUID, requesterID uuid.UUID) error {
	if _, err := loadOwned(ctx, s.logger, s.repo.Postgres.Post.FindByID, postID, requesterID, func(p *model.Post) uuid.UUID { return p.AuthorID }, ErrPostNotFound); err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", postID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) publishPostCreated(ctx context.Context, post *model.Post) {
	if s.mq == nil {
		return
	}

	msg := dto.MQPostCreatedMsg{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
	}
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal post created msg: %s", err.Error())
		return
	}

	if err := s.mq.Publish(ctx, rabbitmq.POST_CREATED_QUEUE, msgJSON); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%s) created msg: %s", post.ID.String(), err.Error())
	}
}

func (s *postService) uploadFileToCDN(path string, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	endpoint := "/upload"
	url := viper.GetString("cdn.origin") + endpoint

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create file part for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.logger.Sugar().Errorf("failed to seek to the start of the file: %s", err.Error())
		return "", ErrInternal
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		s.logger.Sugar().Errorf("failed to copy file content for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if err := writer.WriteField("path", path); err != nil {
		s.logger.Sugar().Errorf("failed to write path field for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if err := writer.Close(); err != nil {
		s.logger.Sugar().Errorf("failed to close writer for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	req, err := http.NewRequest(http.MethodPost, url, &requestBody)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create CDN request: %s", err.Error())
		return "", ErrInternal
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to do CDN request: %s", err.Error())
		return "", ErrInternal
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read response body from CDN: %s", err.Error())
		return "", ErrInternal
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from CDN: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from CDN endpoint(%s), code(%d), details: %s", endpoint, resp.StatusCode, bodyJSON["details"])
		}
		return "", ErrFailedToUploadFileToCDN
	}

	return string(body), nil
}

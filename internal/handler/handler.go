package handler

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		feed := v1.Group("/feed", h.authMiddleware)
		{
			feed.GET("", h.feedGet)

			posts := feed.Group("/posts")
			{
				posts.POST("", h.postsCreate)

				post := posts.Group("/:postID")
				{
					post.GET("", h.postsGetByID)
					post.PATCH("", h.postsEdit)
					post.DELETE("", h.postsDelete)
					post.POST("/comments", h.commentsCreate)
					post.GET("/reactions", h.postsGetReactions)
					post.POST("/reactions", h.postsToggleReaction)
				}
			}

			comments := feed.Group("/comments/:commentID")
			{
				comments.PATCH("", h.commentsEdit)
				comments.DELETE("", h.commentsDelete)
				comments.POST("/replies", h.repliesCreate)
				comments.GET("/reactions", h.commentsGetReactions)
				comments.POST("/reactions", h.commentsToggleReaction)
			}

			replies := feed.Group("/replies/:replyID")
			{
				replies.PATCH("", h.repliesEdit)
				replies.DELETE("", h.repliesDelete)
				replies.GET("/reactions", h.repliesGetReactions)
				replies.POST("/reactions", h.repliesToggleReaction)
			}
		}
	}

	return r
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims, accessToken string) (*model.CachedUser, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	user, err := h.services.UserCache.CreateOrGet(ctx, id, accessToken)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Handler) getCachedUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("cached-user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}

package handlers

import (
	"net/http"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/cache"
	"github.com/andreazevedo1975/OldKut-sub000/internal/events"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	publisher         *events.Publisher
	feedCache         *cache.FeedCache
	metrics           *metrics.Metrics
	log               *logrus.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	publisher *events.Publisher,
	feedCache *cache.FeedCache,
	m *metrics.Metrics,
	log *logrus.Logger,
) *CommentHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		publisher:         publisher,
		feedCache:         feedCache,
		metrics:           m,
		log:               log,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
}

// CreateComment creates a new comment on a post and returns the canonical
// comment object.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	authorID := getUserIDFromContext(c)
	if authorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.feedCache != nil {
		_ = h.feedCache.Invalidate(c.Request().Context())
	}
	if h.metrics != nil {
		h.metrics.CommentsCreated.Inc()
	}
	if h.publisher != nil {
		if err := h.publisher.PublishPostCommented(authorID, post.AuthorID, postID); err != nil {
			h.log.WithError(err).Warn("comment event publish failed")
		}
	}

	return c.JSON(http.StatusCreated, comment.ToAPI())
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]api.Comment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, cm.ToAPI())
	}
	return c.JSON(http.StatusOK, out)
}

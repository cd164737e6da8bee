package handlers

import (
	"net/http"

	"github.com/andreazevedo1975/OldKut-sub000/internal/cache"
	"github.com/andreazevedo1975/OldKut-sub000/internal/events"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	publisher      *events.Publisher
	feedCache      *cache.FeedCache
	metrics        *metrics.Metrics
	log            *logrus.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	publisher *events.Publisher,
	feedCache *cache.FeedCache,
	m *metrics.Metrics,
	log *logrus.Logger,
) *LikeHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		publisher:      publisher,
		feedCache:      feedCache,
		metrics:        m,
		log:            log,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/like", h.GetLikeStatus)
}

// ToggleLike flips the authenticated user's membership in the post's like
// set and reports the resulting state.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, err := h.likeRepository.ToggleLike(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.feedCache != nil {
		_ = h.feedCache.Invalidate(c.Request().Context())
	}
	if h.metrics != nil {
		h.metrics.LikesToggled.Inc()
	}
	if liked && h.publisher != nil {
		if err := h.publisher.PublishPostLiked(userID, post.AuthorID, postID); err != nil {
			h.log.WithError(err).Warn("like event publish failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}

// GetLikeStatus checks if the authenticated user has liked a specific post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	liked, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}

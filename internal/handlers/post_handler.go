package handlers

import (
	"net/http"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/cache"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	feedCache      *cache.FeedCache
	metrics        *metrics.Metrics
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, feedCache *cache.FeedCache, m *metrics.Metrics) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		feedCache:      feedCache,
		metrics:        m,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:post_id", h.GetPost)
}

// CreatePost creates a new post and returns the canonical object with its
// server-assigned ID and timestamp.
func (h *PostHandler) CreatePost(c echo.Context) error {
	authorID := getUserIDFromContext(c)
	if authorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.feedCache != nil {
		_ = h.feedCache.Invalidate(c.Request().Context())
	}
	if h.metrics != nil {
		h.metrics.PostsCreated.Inc()
	}

	return c.JSON(http.StatusCreated, post.ToAPI([]uint{}, []api.Comment{}))
}

// GetPost retrieves a single post document.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, post)
}

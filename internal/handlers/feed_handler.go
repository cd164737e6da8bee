package handlers

import (
	"net/http"
	"strconv"

	"github.com/andreazevedo1975/OldKut-sub000/internal/api"
	"github.com/andreazevedo1975/OldKut-sub000/internal/cache"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository    repositories.PostRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	feedCache         *cache.FeedCache
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	feedCache *cache.FeedCache,
) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		feedCache:         feedCache,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns feed posts newest-first with like sets and nested comments,
// paginated by limit+offset. A short page tells the client it reached the end.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 || limit > 50 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	if offset == 0 && h.feedCache != nil {
		if posts, ok := h.feedCache.GetFirstPage(c.Request().Context(), limit); ok {
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"data":    echo.Map{"posts": posts},
			})
		}
	}

	posts, err := h.postRepository.GetFeedPosts(c.Request().Context(), int64(offset), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := h.enrich(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if offset == 0 && h.feedCache != nil && len(enriched) == limit {
		_ = h.feedCache.SetFirstPage(c.Request().Context(), enriched)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": enriched},
	})
}

// enrich merges the relational like sets and comments into a page of posts.
func (h *FeedHandler) enrich(posts []models.Post) ([]api.Post, error) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likesByPost, err := h.likeRepository.GetLikerIDsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	commentsByPost, err := h.commentRepository.GetCommentsByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]api.Post, len(posts))
	for i, p := range posts {
		comments := make([]api.Comment, 0, len(commentsByPost[p.ID]))
		for _, cm := range commentsByPost[p.ID] {
			comments = append(comments, cm.ToAPI())
		}
		enriched[i] = p.ToAPI(likesByPost[p.ID], comments)
	}
	return enriched, nil
}

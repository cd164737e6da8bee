package handlers

import (
	"net/http"

	"github.com/andreazevedo1975/OldKut-sub000/internal/events"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// FriendshipHandler handles friend request HTTP requests
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	publisher            *events.Publisher
	log                  *logrus.Logger
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, publisher *events.Publisher, log *logrus.Logger) *FriendshipHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		publisher:            publisher,
		log:                  log,
	}
}

// RegisterFriendshipRoutes registers friendship routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friendships", h.SendFriendRequest)
	g.PUT("/friendships/:requester_id/accept", h.AcceptFriendRequest)
}

// SendFriendRequest creates a pending friendship and notifies the addressee.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.FriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot befriend yourself")
	}

	if err := h.friendshipRepository.CreateRequest(currentUserID, req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	if h.publisher != nil {
		if err := h.publisher.PublishFriendRequested(currentUserID, req.UserID); err != nil {
			h.log.WithError(err).Warn("friend request event publish failed")
		}
	}
	return c.NoContent(http.StatusCreated)
}

// AcceptFriendRequest accepts a pending request addressed to the
// authenticated user.
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requesterID, err := parseUintParam(c, "requester_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid requester ID")
	}

	if err := h.friendshipRepository.Accept(requesterID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// ToggleFollow follows the target when not yet followed and unfollows
// otherwise. Following yourself is rejected. A notification is created on
// follow only, never on unfollow.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentID := currentUserID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if currentID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing, err := h.followRepository.IsFollowing(currentID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if isFollowing {
		if err := h.followRepository.DeleteFollow(currentID, targetID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"message":   "User unfollowed",
			"following": false,
		})
	}

	follow := &models.Follow{FollowerID: currentID, FollowingID: targetID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(currentID); err == nil {
		notif := &models.Notification{
			RecipientID: target.ID,
			SenderID:    currentID,
			Type:        models.NotificationFollow,
			Content:     actor.FullName() + " started following you",
		}
		h.notificationRepository.CreateNotification(notif)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "User followed",
		"following": true,
	})
}

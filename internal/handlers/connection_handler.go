package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// ConnectionHandler handles the mutual-connection handshake and network queries
type ConnectionHandler struct {
	connectionRepository   repositories.ConnectionRepository
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(
	connectionRepo repositories.ConnectionRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionRepository:   connectionRepo,
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterConnectionRoutes registers handshake and network routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/users/:id/connect", h.Connect)
	g.POST("/users/:id/accept-connection", h.AcceptConnection)
	g.POST("/users/:id/reject-connection", h.RejectConnection)

	g.GET("/connections/stats", h.Stats)
	g.GET("/connections/mutual/:userId", h.MutualConnections)
	g.GET("/connections/sent-requests", h.SentRequests)
	g.GET("/connections/company/:company", h.FilterByCompany)
	g.GET("/connections/location/:location", h.FilterByLocation)
	g.GET("/connections/skills/:skills", h.FilterBySkills)
	g.DELETE("/connections/cancel-request/:userId", h.CancelRequest)
	g.DELETE("/connections/:userId", h.RemoveConnection)
}

// Connect sends a connection request to the target. When the target already
// has a pending request to the requester, the two intents are merged and the
// pair becomes connected immediately.
func (h *ConnectionHandler) Connect(c echo.Context) error {
	currentID := currentUserID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}
	if currentID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot connect with yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	edge, err := h.connectionRepository.GetEdge(currentID, targetID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if edge != nil {
		switch {
		case edge.Status == models.ConnectionAccepted:
			return echo.NewHTTPError(http.StatusBadRequest, "Already connected with this user")
		case edge.RequesterID == currentID:
			return echo.NewHTTPError(http.StatusBadRequest, "Connection request already sent")
		default:
			// The target already asked us; merge the two intents.
			if err := h.connectionRepository.AcceptRequest(targetID, currentID); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			h.notify(targetID, currentID, models.NotificationConnectionAccepted,
				" accepted your connection request")
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"message": "Connection accepted",
			})
		}
	}

	if err := h.connectionRepository.CreateRequest(currentID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notify(targetID, currentID, models.NotificationConnectionRequest,
		" sent you a connection request")

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Connection request sent"})
}

// AcceptConnection accepts a pending request from the user in the path
func (h *ConnectionHandler) AcceptConnection(c echo.Context) error {
	currentID := currentUserID(c)

	requesterID, err := parseUserID(c)
	if err != nil {
		return err
	}

	hasPending, err := h.connectionRepository.HasPendingFrom(requesterID, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !hasPending {
		return echo.NewHTTPError(http.StatusBadRequest, "No pending connection request from this user")
	}

	if err := h.connectionRepository.AcceptRequest(requesterID, currentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notify(requesterID, currentID, models.NotificationConnectionAccepted,
		" accepted your connection request")

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Connection accepted"})
}

// RejectConnection drops a pending request from the user in the path.
// No notification is produced for a rejection.
func (h *ConnectionHandler) RejectConnection(c echo.Context) error {
	currentID := currentUserID(c)

	requesterID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.connectionRepository.DeletePending(requesterID, currentID); err != nil {
		if err == repositories.ErrNoPendingRequest {
			return echo.NewHTTPError(http.StatusBadRequest, "No pending connection request from this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Connection request rejected"})
}

// Stats returns the requester's network counts
func (h *ConnectionHandler) Stats(c echo.Context) error {
	currentID := currentUserID(c)

	connections, err := h.connectionRepository.CountConnections(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followers, err := h.followRepository.CountFollowers(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.CountFollowing(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pending, err := h.connectionRepository.CountPendingIncoming(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"connections":        connections,
			"followers":          followers,
			"following":          following,
			"pendingConnections": pending,
		},
	})
}

// MutualConnections returns the intersection of the requester's and the
// target's accepted-connection sets.
func (h *ConnectionHandler) MutualConnections(c echo.Context) error {
	currentID := currentUserID(c)

	targetID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	mine, err := h.connectionRepository.GetConnectionIDs(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	theirs, err := h.connectionRepository.GetConnectionIDs(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	inMine := make(map[uint]bool, len(mine))
	for _, id := range mine {
		inMine[id] = true
	}
	var mutual []uint
	for _, id := range theirs {
		if inMine[id] {
			mutual = append(mutual, id)
		}
	}

	users, err := h.userRepository.GetUsersByIDs(mutual)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(users)})
}

// FilterByCompany lists the requester's connections at a matching company
func (h *ConnectionHandler) FilterByCompany(c echo.Context) error {
	return h.filterConnections(c, repositories.ConnectionFilter{Company: pathParam(c, "company")})
}

// FilterByLocation lists the requester's connections in a matching location
func (h *ConnectionHandler) FilterByLocation(c echo.Context) error {
	return h.filterConnections(c, repositories.ConnectionFilter{Location: pathParam(c, "location")})
}

// FilterBySkills lists the requester's connections holding any of the
// comma-separated skills.
func (h *ConnectionHandler) FilterBySkills(c echo.Context) error {
	var skills []string
	for _, s := range strings.Split(pathParam(c, "skills"), ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			skills = append(skills, s)
		}
	}
	return h.filterConnections(c, repositories.ConnectionFilter{Skills: skills})
}

// filterConnections narrows the accepted-connection set by profile attributes
func (h *ConnectionHandler) filterConnections(c echo.Context, filter repositories.ConnectionFilter) error {
	ids, err := h.connectionRepository.GetConnectionIDs(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.userRepository.FilterUsersByIDs(ids, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(users)})
}

// SentRequests lists users the requester has a pending request to
func (h *ConnectionHandler) SentRequests(c echo.Context) error {
	users, err := h.connectionRepository.GetPendingAddressees(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(users)})
}

// CancelRequest withdraws the requester's own pending request
func (h *ConnectionHandler) CancelRequest(c echo.Context) error {
	currentID := currentUserID(c)

	targetID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.connectionRepository.DeletePending(currentID, targetID); err != nil {
		if err == repositories.ErrNoPendingRequest {
			return echo.NewHTTPError(http.StatusBadRequest, "No pending connection request to this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Connection request cancelled"})
}

// RemoveConnection removes an accepted connection in either direction
func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	currentID := currentUserID(c)

	targetID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}
	if currentID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot remove yourself as a connection")
	}
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.connectionRepository.DeleteAccepted(currentID, targetID); err != nil {
		if err == repositories.ErrNotConnected {
			return echo.NewHTTPError(http.StatusBadRequest, "Not connected with this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Connection removed"})
}

func (h *ConnectionHandler) notify(recipientID, senderID uint, notifType, suffix string) {
	actor, err := h.userRepository.GetUserByID(senderID)
	if err != nil {
		return
	}
	notif := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Content:     actor.FullName() + suffix,
	}
	h.notificationRepository.CreateNotification(notif)
}

// pathParam returns a path parameter with percent-encoding undone
func pathParam(c echo.Context, name string) string {
	if v, err := url.PathUnescape(c.Param(name)); err == nil {
		return v
	}
	return c.Param(name)
}

func parseUserIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

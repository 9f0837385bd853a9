package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// UserHandler handles profile, search and suggestion HTTP requests
type UserHandler struct {
	userRepository       repositories.UserRepository
	followRepository     repositories.FollowRepository
	connectionRepository repositories.ConnectionRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	connectionRepo repositories.ConnectionRepository,
) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		followRepository:     followRepo,
		connectionRepository: connectionRepo,
	}
}

// RegisterUserRoutes registers user directory routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/suggestions", h.Suggestions)
	g.GET("/users/pending-connections", h.GetPendingConnections)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/connections", h.GetConnections)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.PUT("/users/profile-picture", h.UpdateProfilePicture)
	g.PUT("/users/cover-photo", h.UpdateCoverPhoto)
}

// GetUser returns a public profile together with the requester's relationship
// to it (following / connected / pending).
func (h *UserHandler) GetUser(c echo.Context) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	currentID := currentUserID(c)
	isFollowing := false
	isConnected := false
	hasPendingConnection := false
	if currentID != 0 && currentID != targetID {
		isFollowing, _ = h.followRepository.IsFollowing(currentID, targetID)
		isConnected, _ = h.connectionRepository.IsConnected(currentID, targetID)
		hasPendingConnection, _ = h.connectionRepository.HasPendingFrom(currentID, targetID)
	}

	followers, _ := h.followRepository.CountFollowers(targetID)
	following, _ := h.followRepository.CountFollowing(targetID)
	connections, _ := h.connectionRepository.CountConnections(targetID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"profile":              user.ToPublicProfile(followers, following, connections),
			"isFollowing":          isFollowing,
			"isConnected":          isConnected,
			"hasPendingConnection": hasPendingConnection,
		},
	})
}

// SearchUsers searches active users by text, skills, location and company
func (h *UserHandler) SearchUsers(c echo.Context) error {
	page, limit := paginationParams(c, 10)

	params := repositories.SearchUsersParams{
		Query:    c.QueryParam("q"),
		Location: c.QueryParam("location"),
		Company:  c.QueryParam("company"),
		Page:     page,
		Limit:    limit,
	}
	if skills := c.QueryParam("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				params.Skills = append(params.Skills, s)
			}
		}
	}

	users, total, err := h.userRepository.SearchUsers(params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       compactUsers(users),
		"pagination": paginationMeta(page, limit, total),
	})
}

// Suggestions returns users the requester might connect with: never self,
// already-connected, followed or pending users; candidates sharing
// connections with the requester rank first.
func (h *UserHandler) Suggestions(c echo.Context) error {
	currentID := currentUserID(c)

	connectionIDs, err := h.connectionRepository.GetConnectionIDs(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingIDs, err := h.followRepository.GetFollowingIDs(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pendingSent, err := h.connectionRepository.GetPendingAddressees(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pendingReceived, err := h.connectionRepository.GetPendingRequesters(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Pending requests suppress suggestions in both directions.
	excluded := []uint{currentID}
	excluded = append(excluded, connectionIDs...)
	excluded = append(excluded, followingIDs...)
	for _, u := range pendingSent {
		excluded = append(excluded, u.ID)
	}
	for _, u := range pendingReceived {
		excluded = append(excluded, u.ID)
	}

	const suggestionLimit = 10

	rankedIDs, err := h.connectionRepository.SuggestByOverlap(connectionIDs, excluded, suggestionLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var suggestions []models.User
	if len(rankedIDs) > 0 {
		users, err := h.userRepository.GetUsersByIDs(rankedIDs)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		// Restore overlap ranking lost by the IN query.
		byID := make(map[uint]models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for _, id := range rankedIDs {
			if u, ok := byID[id]; ok && u.IsActive {
				suggestions = append(suggestions, u)
			}
		}
	}

	if len(suggestions) < suggestionLimit {
		for _, u := range suggestions {
			excluded = append(excluded, u.ID)
		}
		more, err := h.userRepository.SuggestUsers(excluded, suggestionLimit-len(suggestions))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		suggestions = append(suggestions, more...)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(suggestions)})
}

// GetConnections lists a user's accepted connections
func (h *UserHandler) GetConnections(c echo.Context) error {
	return h.listRelated(c, h.connectionRepository.GetConnections)
}

// GetFollowers lists a user's followers
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listRelated(c, h.followRepository.GetFollowers)
}

// GetFollowing lists the users a user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.listRelated(c, h.followRepository.GetFollowing)
}

// GetPendingConnections lists incoming pending connection requesters
func (h *UserHandler) GetPendingConnections(c echo.Context) error {
	users, err := h.connectionRepository.GetPendingRequesters(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(users)})
}

// UpdateProfilePicture records the storage provider's URL for the picture
func (h *UserHandler) UpdateProfilePicture(c echo.Context) error {
	var req models.UpdateProfilePictureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return h.updateImage(c, func(u *models.User) { u.ProfilePicture = req.ProfilePicture })
}

// UpdateCoverPhoto records the storage provider's URL for the cover photo
func (h *UserHandler) UpdateCoverPhoto(c echo.Context) error {
	var req models.UpdateCoverPhotoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return h.updateImage(c, func(u *models.User) { u.CoverPhoto = req.CoverPhoto })
}

func (h *UserHandler) updateImage(c echo.Context, apply func(*models.User)) error {
	user, err := h.userRepository.GetUserByID(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	apply(user)
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, _ := h.followRepository.CountFollowers(user.ID)
	following, _ := h.followRepository.CountFollowing(user.ID)
	connections, _ := h.connectionRepository.CountConnections(user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user.ToPublicProfile(followers, following, connections),
	})
}

func (h *UserHandler) listRelated(c echo.Context, fetch func(uint) ([]models.User, error)) error {
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := fetch(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compactUsers(users)})
}

func parseUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToCompact())
	}
	return out
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
)

// CommentHandler handles reply, comment-like and comment moderation requests
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	commentLikeRepository  repositories.CommentLikeRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		commentLikeRepository:  commentLikeRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-scoped routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments/:postId/:commentId/reply", h.AddReply)
	g.POST("/comments/:postId/:commentId/like", h.ToggleLike)
	g.PUT("/comments/:postId/:commentId", h.UpdateComment)
	g.DELETE("/comments/:postId/:commentId", h.DeleteComment)
}

// AddReply creates a one-level reply under a comment and notifies the comment
// author.
func (h *CommentHandler) AddReply(c echo.Context) error {
	comment, err := h.fetchComment(c)
	if err != nil {
		return err
	}

	var req models.CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	currentID := currentUserID(c)
	reply := &models.Reply{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		UserID:    currentID,
		Content:   req.Content,
	}
	if err := h.commentRepository.CreateReply(reply); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentID {
		h.notify(comment, currentID, models.NotificationReply, " replied to your comment")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": reply})
}

// ToggleLike likes the comment when not yet liked and removes the like
// otherwise. Liking your own comment produces no notification.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	comment, err := h.fetchComment(c)
	if err != nil {
		return err
	}

	currentID := currentUserID(c)
	liked, err := h.commentLikeRepository.HasLiked(comment.ID, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		if err := h.commentLikeRepository.DeleteLike(comment.ID, currentID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		like := &models.CommentLike{CommentID: comment.ID, UserID: currentID}
		if err := h.commentLikeRepository.CreateLike(like); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if comment.UserID != currentID {
			h.notify(comment, currentID, models.NotificationLike, " liked your comment")
		}
	}

	count, err := h.commentLikeRepository.CountByCommentID(comment.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"liked":   !liked,
		"likes":   count,
	})
}

// UpdateComment edits a comment's content. Only the comment author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	comment, err := h.fetchComment(c)
	if err != nil {
		return err
	}
	if comment.UserID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this comment")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// DeleteComment removes a comment with its replies and likes. The comment
// author and the post author may both delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.fetchComment(c)
	if err != nil {
		return err
	}

	currentID := currentUserID(c)
	if comment.UserID != currentID {
		post, err := h.postRepository.GetPostByID(c.Request().Context(), comment.PostID)
		if err != nil || post.AuthorID != currentID {
			return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
		}
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comment deleted"})
}

// fetchComment loads the comment in the path and checks it belongs to the
// post in the path.
func (h *CommentHandler) fetchComment(c echo.Context) (*models.Comment, error) {
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil || comment.PostID != c.Param("postId") {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	return comment, nil
}

func (h *CommentHandler) notify(comment *models.Comment, senderID uint, notifType, suffix string) {
	actor, err := h.userRepository.GetUserByID(senderID)
	if err != nil {
		return
	}
	notif := &models.Notification{
		RecipientID: comment.UserID,
		SenderID:    senderID,
		Type:        notifType,
		PostID:      comment.PostID,
		CommentID:   comment.ID,
		Content:     actor.FullName() + suffix,
	}
	h.notificationRepository.CreateNotification(notif)
}

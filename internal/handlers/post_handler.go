package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
)

// PostHandler handles post lifecycle and engagement HTTP requests
type PostHandler struct {
	postRepository         repositories.PostRepository
	likeRepository         repositories.LikeRepository
	shareRepository        repositories.ShareRepository
	commentRepository      repositories.CommentRepository
	commentLikeRepository  repositories.CommentLikeRepository
	userRepository         repositories.UserRepository
	connectionRepository   repositories.ConnectionRepository
	notificationRepository repositories.NotificationRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	shareRepo repositories.ShareRepository,
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	userRepo repositories.UserRepository,
	connectionRepo repositories.ConnectionRepository,
	notifRepo repositories.NotificationRepository,
) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		likeRepository:         likeRepo,
		shareRepository:        shareRepo,
		commentRepository:      commentRepo,
		commentLikeRepository:  commentLikeRepo,
		userRepository:         userRepo,
		connectionRepository:   connectionRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetFeed)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/user/:userId", h.GetUserPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/share", h.SharePost)
	g.POST("/posts/:id/comments", h.AddComment)
	g.GET("/posts/:id/comments", h.GetComments)
}

// CreatePost creates a new post authored by the requester
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	post := &models.Post{
		AuthorID:   currentUserID(c),
		Content:    req.Content,
		Media:      req.Media,
		Location:   req.Location,
		Visibility: visibility,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    h.enrichPost(c, post),
	})
}

// GetFeed returns the requester's feed: public posts, own posts, and posts by
// connections shared with the connections audience, newest first.
func (h *PostHandler) GetFeed(c echo.Context) error {
	currentID := currentUserID(c)
	page, limit := paginationParams(c, 10)

	connectionIDs, err := h.connectionRepository.GetConnectionIDs(currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	skip := int64((page - 1) * limit)
	posts, total, err := h.postRepository.GetFeed(c.Request().Context(), currentID, connectionIDs, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       h.enrichPosts(c, posts),
		"pagination": paginationMeta(page, limit, total),
	})
}

// SearchPosts searches public posts by content text and/or hashtag
func (h *PostHandler) SearchPosts(c echo.Context) error {
	page, limit := paginationParams(c, 10)

	params := repositories.PostSearchParams{
		Query:   c.QueryParam("q"),
		Hashtag: c.QueryParam("hashtag"),
	}
	if params.Query == "" && params.Hashtag == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	skip := int64((page - 1) * limit)
	posts, total, err := h.postRepository.SearchPosts(c.Request().Context(), params, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       h.enrichPosts(c, posts),
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetUserPosts returns a user's public posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}
	page, limit := paginationParams(c, 10)

	skip := int64((page - 1) * limit)
	posts, total, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), authorID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       h.enrichPosts(c, posts),
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetPost returns a single post with counts and requester flags
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    h.enrichPost(c, post),
	})
}

// UpdatePost edits a post's content, preserving the pre-edit content in the
// edit history. Only the author may edit.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this post")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post.RecordEdit(req.Content, time.Now())
	if req.Media != nil {
		post.Media = *req.Media
	}
	if req.Visibility != nil {
		post.Visibility = *req.Visibility
	}
	if req.Location != nil {
		post.Location = *req.Location
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), post); err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    h.enrichPost(c, post),
	})
}

// DeletePost removes a post with its comments, likes and shares. Only the
// author may delete. Notifications referring to the post are left in place.
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this post")
	}

	postID := post.ID.Hex()
	if err := h.commentRepository.DeleteByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.shareRepository.DeleteByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}

// ToggleLike likes the post when not yet liked and removes the like otherwise.
// Liking your own post produces no notification.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}

	currentID := currentUserID(c)
	postID := post.ID.Hex()

	liked, err := h.likeRepository.HasLiked(postID, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		if err := h.likeRepository.DeleteLike(postID, currentID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		like := &models.PostLike{PostID: postID, UserID: currentID}
		if err := h.likeRepository.CreateLike(like); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if post.AuthorID != currentID {
			h.notifyEngagement(post, currentID, models.NotificationLike, " liked your post", 0)
		}
	}

	count, err := h.likeRepository.CountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"liked":   !liked,
		"likes":   count,
	})
}

// SharePost records a share. A post can be shared once per user; repeats are
// rejected rather than toggled.
func (h *PostHandler) SharePost(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}

	currentID := currentUserID(c)
	postID := post.ID.Hex()

	shared, err := h.shareRepository.HasShared(postID, currentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if shared {
		return echo.NewHTTPError(http.StatusBadRequest, "Post already shared")
	}

	share := &models.Share{PostID: postID, UserID: currentID}
	if err := h.shareRepository.CreateShare(share); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != currentID {
		h.notifyEngagement(post, currentID, models.NotificationShare, " shared your post", 0)
	}

	count, err := h.shareRepository.CountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post shared",
		"shares":  count,
	})
}

// AddComment creates a comment on the post and notifies its author
func (h *PostHandler) AddComment(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	currentID := currentUserID(c)
	comment := &models.Comment{
		PostID:  post.ID.Hex(),
		UserID:  currentID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.AuthorID != currentID {
		h.notifyEngagement(post, currentID, models.NotificationComment, " commented on your post", comment.ID)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    h.enrichComment(comment, currentUserID(c)),
	})
}

// GetComments lists a post's comments oldest first, each with its replies and
// like count.
func (h *PostHandler) GetComments(c echo.Context) error {
	post, err := h.fetchPost(c)
	if err != nil {
		return err
	}

	page, limit := paginationParams(c, 10)
	comments, total, err := h.commentRepository.GetCommentsByPostID(post.ID.Hex(), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	currentID := currentUserID(c)
	enriched := make([]echo.Map, 0, len(comments))
	for i := range comments {
		enriched = append(enriched, h.enrichComment(&comments[i], currentID))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       enriched,
		"pagination": paginationMeta(page, limit, total),
	})
}

func (h *PostHandler) fetchPost(c echo.Context) (*models.Post, error) {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	switch err {
	case nil:
		return post, nil
	case repositories.ErrPostNotFound:
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case repositories.ErrInvalidPostID:
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	default:
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// enrichPost decorates a post with its author, computed counts and the
// requester's like/share flags.
func (h *PostHandler) enrichPost(c echo.Context, post *models.Post) echo.Map {
	enriched := h.enrichPosts(c, []models.Post{*post})
	return enriched[0]
}

func (h *PostHandler) enrichPosts(c echo.Context, posts []models.Post) []echo.Map {
	currentID := currentUserID(c)

	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}
	authors := make(map[uint]models.UserCompact, len(authorIDs))
	if users, err := h.userRepository.GetUsersByIDs(authorIDs); err == nil {
		for _, u := range users {
			authors[u.ID] = u.ToCompact()
		}
	}

	out := make([]echo.Map, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		postID := p.ID.Hex()

		likes, _ := h.likeRepository.CountByPostID(postID)
		comments, _ := h.commentRepository.CountByPostID(postID)
		shares, _ := h.shareRepository.CountByPostID(postID)
		userLiked, _ := h.likeRepository.HasLiked(postID, currentID)
		userShared, _ := h.shareRepository.HasShared(postID, currentID)

		out = append(out, echo.Map{
			"post":       p,
			"author":     authors[p.AuthorID],
			"likes":      likes,
			"comments":   comments,
			"shares":     shares,
			"userLiked":  userLiked,
			"userShared": userShared,
		})
	}
	return out
}

// enrichComment decorates a comment with its author, replies, like count and
// the requester's like flag.
func (h *PostHandler) enrichComment(comment *models.Comment, currentID uint) echo.Map {
	var author models.UserCompact
	if u, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
		author = u.ToCompact()
	}

	replies, _ := h.commentRepository.GetRepliesByCommentID(comment.ID)
	likes, _ := h.commentLikeRepository.CountByCommentID(comment.ID)
	userLiked, _ := h.commentLikeRepository.HasLiked(comment.ID, currentID)

	return echo.Map{
		"comment":   comment,
		"author":    author,
		"replies":   replies,
		"likes":     likes,
		"userLiked": userLiked,
	}
}

func (h *PostHandler) notifyEngagement(post *models.Post, senderID uint, notifType, suffix string, commentID uint) {
	actor, err := h.userRepository.GetUserByID(senderID)
	if err != nil {
		return
	}
	notif := &models.Notification{
		RecipientID: post.AuthorID,
		SenderID:    senderID,
		Type:        notifType,
		PostID:      post.ID.Hex(),
		CommentID:   commentID,
		Content:     actor.FullName() + suffix,
	}
	h.notificationRepository.CreateNotification(notif)
}

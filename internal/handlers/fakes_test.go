package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/middleware"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
	"github.com/proconnect-app/backend/internal/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// newTestContext builds an echo context with the request validator attached
// and, when userID is non-zero, an authenticated principal.
func newTestContext(method, path string, body interface{}, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if userID != 0 {
		c.Set(middleware.ContextKeyUser, &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func uintParam(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

func httpStatus(err error) int {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// --- user repository fake ---

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) addUser(firstName, lastName, email string) *models.User {
	r.nextID++
	u := &models.User{
		ID:        r.nextID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetUserByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire.After(now) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(params repositories.SearchUsersParams) ([]models.User, int64, error) {
	var matched []models.User
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		if params.Query != "" {
			q := strings.ToLower(params.Query)
			hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Title + " " + u.Company)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := (params.Page - 1) * params.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeUserRepo) FilterUsersByIDs(ids []uint, filter repositories.ConnectionFilter) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, ok := r.users[id]
		if !ok || !u.IsActive {
			continue
		}
		if filter.Company != "" &&
			!strings.Contains(strings.ToLower(u.Company), strings.ToLower(filter.Company)) {
			continue
		}
		if filter.Location != "" &&
			!strings.Contains(strings.ToLower(u.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if len(filter.Skills) > 0 {
			overlap := false
			for _, want := range filter.Skills {
				for _, have := range u.Skills {
					if strings.EqualFold(have, want) {
						overlap = true
					}
				}
			}
			if !overlap {
				continue
			}
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) SuggestUsers(excludedIDs []uint, limit int) ([]models.User, error) {
	excluded := make(map[uint]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	var out []models.User
	for _, u := range r.users {
		if u.IsActive && !excluded[u.ID] {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- follow repository fake ---

type fakeFollowRepo struct {
	users *fakeUserRepo
	edges map[[2]uint]bool
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{users: users, edges: make(map[[2]uint]bool)}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	r.edges[[2]uint{follow.FollowerID, follow.FollowingID}] = true
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	key := [2]uint{followerID, followingID}
	if !r.edges[key] {
		return gorm.ErrRecordNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	return r.edges[[2]uint{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	var ids []uint
	for edge := range r.edges {
		if edge[1] == userID {
			ids = append(ids, edge[0])
		}
	}
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	for edge := range r.edges {
		if edge[0] == userID {
			ids = append(ids, edge[1])
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) CountFollowers(userID uint) (int64, error) {
	var count int64
	for edge := range r.edges {
		if edge[1] == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) CountFollowing(userID uint) (int64, error) {
	var count int64
	for edge := range r.edges {
		if edge[0] == userID {
			count++
		}
	}
	return count, nil
}

// --- connection repository fake ---

type fakeConnectionRepo struct {
	users *fakeUserRepo
	edges []*models.Connection
}

func newFakeConnectionRepo(users *fakeUserRepo) *fakeConnectionRepo {
	return &fakeConnectionRepo{users: users}
}

func (r *fakeConnectionRepo) GetEdge(a, b uint) (*models.Connection, error) {
	for _, e := range r.edges {
		if (e.RequesterID == a && e.AddresseeID == b) || (e.RequesterID == b && e.AddresseeID == a) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) CreateRequest(requesterID, addresseeID uint) error {
	r.edges = append(r.edges, &models.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.ConnectionPending,
	})
	return nil
}

func (r *fakeConnectionRepo) AcceptRequest(requesterID, addresseeID uint) error {
	for _, e := range r.edges {
		if e.RequesterID == requesterID && e.AddresseeID == addresseeID && e.Status == models.ConnectionPending {
			e.Status = models.ConnectionAccepted
			return nil
		}
	}
	return repositories.ErrNoPendingRequest
}

func (r *fakeConnectionRepo) DeletePending(requesterID, addresseeID uint) error {
	for i, e := range r.edges {
		if e.RequesterID == requesterID && e.AddresseeID == addresseeID && e.Status == models.ConnectionPending {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNoPendingRequest
}

func (r *fakeConnectionRepo) DeleteAccepted(a, b uint) error {
	for i, e := range r.edges {
		match := (e.RequesterID == a && e.AddresseeID == b) || (e.RequesterID == b && e.AddresseeID == a)
		if match && e.Status == models.ConnectionAccepted {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotConnected
}

func (r *fakeConnectionRepo) IsConnected(a, b uint) (bool, error) {
	edge, err := r.GetEdge(a, b)
	if err != nil {
		return false, nil
	}
	return edge.Status == models.ConnectionAccepted, nil
}

func (r *fakeConnectionRepo) HasPendingFrom(requesterID, addresseeID uint) (bool, error) {
	for _, e := range r.edges {
		if e.RequesterID == requesterID && e.AddresseeID == addresseeID && e.Status == models.ConnectionPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConnectionRepo) GetConnections(userID uint) ([]models.User, error) {
	ids, _ := r.GetConnectionIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeConnectionRepo) GetConnectionIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range r.edges {
		if e.Status != models.ConnectionAccepted {
			continue
		}
		if e.RequesterID == userID {
			ids = append(ids, e.AddresseeID)
		} else if e.AddresseeID == userID {
			ids = append(ids, e.RequesterID)
		}
	}
	return ids, nil
}

func (r *fakeConnectionRepo) GetPendingRequesters(userID uint) ([]models.User, error) {
	var ids []uint
	for _, e := range r.edges {
		if e.AddresseeID == userID && e.Status == models.ConnectionPending {
			ids = append(ids, e.RequesterID)
		}
	}
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeConnectionRepo) GetPendingAddressees(userID uint) ([]models.User, error) {
	var ids []uint
	for _, e := range r.edges {
		if e.RequesterID == userID && e.Status == models.ConnectionPending {
			ids = append(ids, e.AddresseeID)
		}
	}
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeConnectionRepo) CountConnections(userID uint) (int64, error) {
	ids, _ := r.GetConnectionIDs(userID)
	return int64(len(ids)), nil
}

func (r *fakeConnectionRepo) CountPendingIncoming(userID uint) (int64, error) {
	var count int64
	for _, e := range r.edges {
		if e.AddresseeID == userID && e.Status == models.ConnectionPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeConnectionRepo) SuggestByOverlap(connectionIDs, excludedIDs []uint, limit int) ([]uint, error) {
	return nil, nil
}

// --- post repository fake ---

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.RefreshDerived()
	copied := *post
	r.posts[post.ID.Hex()] = &copied
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repositories.ErrInvalidPostID
	}
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) GetFeed(_ context.Context, userID uint, connectionIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	connected := make(map[uint]bool, len(connectionIDs))
	for _, id := range connectionIDs {
		connected[id] = true
	}
	return r.page(skip, limit, func(p *models.Post) bool {
		if p.Visibility == models.VisibilityPublic || p.AuthorID == userID {
			return true
		}
		return connected[p.AuthorID] && p.Visibility == models.VisibilityConnections
	})
}

func (r *fakePostRepo) GetPostsByAuthor(_ context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error) {
	return r.page(skip, limit, func(p *models.Post) bool {
		return p.AuthorID == authorID && p.Visibility == models.VisibilityPublic
	})
}

func (r *fakePostRepo) SearchPosts(_ context.Context, params repositories.PostSearchParams, skip, limit int64) ([]models.Post, int64, error) {
	return r.page(skip, limit, func(p *models.Post) bool {
		if p.Visibility != models.VisibilityPublic {
			return false
		}
		if params.Query != "" &&
			!strings.Contains(strings.ToLower(p.Content), strings.ToLower(params.Query)) {
			return false
		}
		if params.Hashtag != "" {
			found := false
			for _, tag := range p.Hashtags {
				if tag == params.Hashtag {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	})
}

func (r *fakePostRepo) page(skip, limit int64, match func(*models.Post) bool) ([]models.Post, int64, error) {
	var matched []models.Post
	for _, p := range r.posts {
		if match(p) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	if skip > int64(len(matched)) {
		skip = int64(len(matched))
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID.Hex()]; !ok {
		return repositories.ErrPostNotFound
	}
	post.UpdatedAt = time.Now()
	copied := *post
	r.posts[post.ID.Hex()] = &copied
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repositories.ErrInvalidPostID
	}
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// --- comment repository fake ---

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	replies  []*models.Reply
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string, page, limit int) ([]models.Comment, int64, error) {
	var matched []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			matched = append(matched, *c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeCommentRepo) UpdateComment(comment *models.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	delete(r.comments, id)
	kept := r.replies[:0]
	for _, rep := range r.replies {
		if rep.CommentID != id {
			kept = append(kept, rep)
		}
	}
	r.replies = kept
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(postID string) error {
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	kept := r.replies[:0]
	for _, rep := range r.replies {
		if rep.PostID != postID {
			kept = append(kept, rep)
		}
	}
	r.replies = kept
	return nil
}

func (r *fakeCommentRepo) CountByPostID(postID string) (int64, error) {
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) CreateReply(reply *models.Reply) error {
	r.nextID++
	reply.ID = r.nextID
	reply.CreatedAt = time.Now()
	r.replies = append(r.replies, reply)
	return nil
}

func (r *fakeCommentRepo) GetRepliesByCommentID(commentID uint) ([]models.Reply, error) {
	var out []models.Reply
	for _, rep := range r.replies {
		if rep.CommentID == commentID {
			out = append(out, *rep)
		}
	}
	return out, nil
}

// --- like / comment-like / share fakes ---

type fakeLikeRepo struct {
	likes map[string]map[uint]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]map[uint]bool)}
}

func (r *fakeLikeRepo) HasLiked(postID string, userID uint) (bool, error) {
	return r.likes[postID][userID], nil
}

func (r *fakeLikeRepo) CreateLike(like *models.PostLike) error {
	if r.likes[like.PostID] == nil {
		r.likes[like.PostID] = make(map[uint]bool)
	}
	r.likes[like.PostID][like.UserID] = true
	return nil
}

func (r *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	delete(r.likes[postID], userID)
	return nil
}

func (r *fakeLikeRepo) CountByPostID(postID string) (int64, error) {
	return int64(len(r.likes[postID])), nil
}

func (r *fakeLikeRepo) DeleteByPostID(postID string) error {
	delete(r.likes, postID)
	return nil
}

type fakeCommentLikeRepo struct {
	likes map[uint]map[uint]bool
}

func newFakeCommentLikeRepo() *fakeCommentLikeRepo {
	return &fakeCommentLikeRepo{likes: make(map[uint]map[uint]bool)}
}

func (r *fakeCommentLikeRepo) HasLiked(commentID, userID uint) (bool, error) {
	return r.likes[commentID][userID], nil
}

func (r *fakeCommentLikeRepo) CreateLike(like *models.CommentLike) error {
	if r.likes[like.CommentID] == nil {
		r.likes[like.CommentID] = make(map[uint]bool)
	}
	r.likes[like.CommentID][like.UserID] = true
	return nil
}

func (r *fakeCommentLikeRepo) DeleteLike(commentID, userID uint) error {
	delete(r.likes[commentID], userID)
	return nil
}

func (r *fakeCommentLikeRepo) CountByCommentID(commentID uint) (int64, error) {
	return int64(len(r.likes[commentID])), nil
}

type fakeShareRepo struct {
	shares map[string]map[uint]bool
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: make(map[string]map[uint]bool)}
}

func (r *fakeShareRepo) HasShared(postID string, userID uint) (bool, error) {
	return r.shares[postID][userID], nil
}

func (r *fakeShareRepo) CreateShare(share *models.Share) error {
	if r.shares[share.PostID] == nil {
		r.shares[share.PostID] = make(map[uint]bool)
	}
	r.shares[share.PostID][share.UserID] = true
	return nil
}

func (r *fakeShareRepo) CountByPostID(postID string) (int64, error) {
	return int64(len(r.shares[postID])), nil
}

func (r *fakeShareRepo) DeleteByPostID(postID string) error {
	delete(r.shares, postID)
	return nil
}

// --- notification repository fake ---

type fakeNotificationRepo struct {
	items  []*models.Notification
	nextID uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.nextID++
	notification.ID = r.nextID
	notification.CreatedAt = time.Now()
	r.items = append(r.items, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var matched []models.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsDeleted {
			matched = append(matched, *n)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead && !n.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(id, recipientID uint) error {
	for _, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) SoftDelete(id, recipientID uint) error {
	for _, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsDeleted = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) SoftDeleteAll(recipientID uint) error {
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			n.IsDeleted = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteOldRead(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var removed int64
	kept := r.items[:0]
	for _, n := range r.items {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			removed++
		} else {
			kept = append(kept, n)
		}
	}
	r.items = kept
	return removed, nil
}

// byType filters the stored notifications by type
func (r *fakeNotificationRepo) byType(notifType string) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.items {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconnect-app/backend/internal/models"
)

func newFollowFixture() (*FollowHandler, *fakeUserRepo, *fakeFollowRepo, *fakeNotificationRepo) {
	users := newFakeUserRepo()
	follows := newFakeFollowRepo(users)
	notifications := newFakeNotificationRepo()
	handler := NewFollowHandler(follows, users, notifications)
	return handler, users, follows, notifications
}

func followContext(actorID, targetID uint) (echo.Context, *httptest.ResponseRecorder) {
	ctx, rec := newTestContext(http.MethodPost, "/api/users/:id/follow", nil, actorID)
	ctx.SetParamNames("id")
	ctx.SetParamValues(uintParam(targetID))
	return ctx, rec
}

func TestToggleFollowFollowsThenUnfollows(t *testing.T) {
	handler, users, follows, notifications := newFollowFixture()
	actor := users.addUser("Ada", "Lovelace", "ada@example.com")
	target := users.addUser("Grace", "Hopper", "grace@example.com")

	c, rec := followContext(actor.ID, target.ID)
	require.NoError(t, handler.ToggleFollow(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(rec)["following"])

	isFollowing, _ := follows.IsFollowing(actor.ID, target.ID)
	assert.True(t, isFollowing)

	created := notifications.byType(models.NotificationFollow)
	require.Len(t, created, 1)
	assert.Equal(t, target.ID, created[0].RecipientID)
	assert.Equal(t, actor.ID, created[0].SenderID)

	// Second call reverses the follow without another notification.
	c2, rec2 := followContext(actor.ID, target.ID)
	require.NoError(t, handler.ToggleFollow(c2))
	assert.Equal(t, false, decodeBody(rec2)["following"])

	isFollowing, _ = follows.IsFollowing(actor.ID, target.ID)
	assert.False(t, isFollowing)
	assert.Len(t, notifications.byType(models.NotificationFollow), 1)
}

func TestToggleFollowSelfRejected(t *testing.T) {
	handler, users, _, _ := newFollowFixture()
	actor := users.addUser("Ada", "Lovelace", "ada@example.com")

	c, _ := followContext(actor.ID, actor.ID)
	err := handler.ToggleFollow(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))
}

func TestToggleFollowUnknownTarget(t *testing.T) {
	handler, users, _, _ := newFollowFixture()
	actor := users.addUser("Ada", "Lovelace", "ada@example.com")

	c, _ := followContext(actor.ID, 999)
	err := handler.ToggleFollow(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(err))
}

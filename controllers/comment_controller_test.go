package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func commentRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	cc := NewCommentController(db)
	playlists := r.Group("/playlists", asUser(userID))
	{
		playlists.GET("/:id/comments", cc.ListPlaylistComments)
		playlists.POST("/:id/comments", cc.CreateComment)
		playlists.GET("/:id/comments/:commentId", cc.GetComment)
		playlists.PUT("/:id/comments/:commentId", cc.UpdateComment)
		playlists.DELETE("/:id/comments/:commentId", cc.DeleteComment)
	}
	return r
}

func TestCreateCommentNotifiesPlaylistOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")

	w := doRequest(t, commentRouter(db, bob.ID), http.MethodPost,
		fmt.Sprintf("/playlists/%d/comments", playlist.ID), gin.H{"content": "great mix"})
	require.Equal(t, http.StatusCreated, w.Code)

	var notification models.Notification
	require.NoError(t, db.Where("recipient_id = ?", alice.ID).First(&notification).Error)
	assert.Equal(t, "comment", notification.Type)
	assert.Equal(t, bob.ID, notification.ActorID)
}

func TestCreateCommentOnOwnPlaylistSkipsNotification(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")

	w := doRequest(t, commentRouter(db, alice.ID), http.MethodPost,
		fmt.Sprintf("/playlists/%d/comments", playlist.ID), gin.H{"content": "my own note"})
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateCommentReplyContainment(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	first := createPlaylist(t, db, alice, "road trip")
	second := createPlaylist(t, db, alice, "late night")
	parent := createComment(t, db, alice, first, "top comment")
	r := commentRouter(db, bob.ID)

	// A reply on another playlist is rejected.
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/playlists/%d/comments", second.ID),
		gin.H{"content": "cross reply", "replying_id": parent.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"replying": ["Reply must belong to the same playlist as the comment"]}`, w.Body.String())

	// Same playlist works.
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/playlists/%d/comments", first.ID),
		gin.H{"content": "in-place reply", "replying_id": parent.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var reply models.Comment
	require.NoError(t, db.Where("created_by_id = ?", bob.ID).First(&reply).Error)
	require.NotNil(t, reply.ReplyingID)
	assert.Equal(t, parent.ID, *reply.ReplyingID)
}

func TestCreateCommentReplyToMissingComment(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")

	w := doRequest(t, commentRouter(db, alice.ID), http.MethodPost,
		fmt.Sprintf("/playlists/%d/comments", playlist.ID),
		gin.H{"content": "orphan reply", "replying_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPlaylistCommentsExcludesReplies(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")
	parent := createComment(t, db, alice, playlist, "top comment")

	reply := models.Comment{
		CreatedByID: alice.ID,
		PlaylistID:  playlist.ID,
		ReplyingID:  &parent.ID,
		Content:     "a reply",
	}
	require.NoError(t, db.Create(&reply).Error)

	w := doRequest(t, commentRouter(db, alice.ID), http.MethodGet,
		fmt.Sprintf("/playlists/%d/comments", playlist.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	comments := decodeBody(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	entry := comments[0].(map[string]interface{})
	assert.EqualValues(t, parent.ID, entry["id"])
}

func TestUpdateCommentCreatorOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")
	comment := createComment(t, db, alice, playlist, "original")
	path := fmt.Sprintf("/playlists/%d/comments/%d", playlist.ID, comment.ID)

	w := doRequest(t, commentRouter(db, bob.ID), http.MethodPut, path, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, commentRouter(db, alice.ID), http.MethodPut, path, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Comment
	require.NoError(t, db.First(&updated, comment.ID).Error)
	assert.Equal(t, "edited", updated.Content)
}

func TestCommentIsPlaylistScoped(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	first := createPlaylist(t, db, alice, "road trip")
	second := createPlaylist(t, db, alice, "late night")
	comment := createComment(t, db, alice, first, "on the first one")

	// Addressing the comment through the wrong playlist misses.
	w := doRequest(t, commentRouter(db, alice.ID), http.MethodGet,
		fmt.Sprintf("/playlists/%d/comments/%d", second.ID, comment.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, commentRouter(db, alice.ID), http.MethodGet,
		fmt.Sprintf("/playlists/%d/comments/%d", first.ID, comment.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteComment(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	playlist := createPlaylist(t, db, alice, "road trip")
	comment := createComment(t, db, alice, playlist, "short lived")
	path := fmt.Sprintf("/playlists/%d/comments/%d", playlist.ID, comment.ID)

	w := doRequest(t, commentRouter(db, bob.ID), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, commentRouter(db, alice.ID), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, commentRouter(db, alice.ID), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

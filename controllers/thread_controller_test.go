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

func threadRouter(db *gorm.DB, userID uint) *gin.Engine {
	r := gin.New()
	tc := NewThreadController(db)
	threads := r.Group("/threads", asUser(userID))
	{
		threads.POST("", tc.CreateThread)
		threads.GET("", tc.ListThreads)
		threads.GET("/:id", tc.GetThread)
		threads.DELETE("/:id", tc.DeleteThread)
	}
	return r
}

func postThread(t *testing.T, db *gorm.DB, user models.User, content string) uint {
	t.Helper()
	w := doRequest(t, threadRouter(db, user.ID), http.MethodPost, "/threads",
		gin.H{"message": gin.H{"content": content}})
	require.Equal(t, http.StatusCreated, w.Code)

	thread := decodeBody(t, w)["thread"].(map[string]interface{})
	return uint(thread["id"].(float64))
}

func TestCreateThreadWithMessage(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodPost, "/threads",
		gin.H{"message": gin.H{"content": "first post", "hashtags": []string{"music", "golang"}}})
	require.Equal(t, http.StatusCreated, w.Code)

	var thread models.Thread
	require.NoError(t, db.Preload("Message").First(&thread).Error)
	require.NotNil(t, thread.Message)
	assert.Equal(t, "first post", thread.Message.Content)
	assert.Equal(t, []string{"music", "golang"}, []string(thread.Message.Hashtags))
	assert.Nil(t, thread.ReplyingID)
	assert.Nil(t, thread.SharingID)
}

func TestCreateThreadReplyAndShareRejected(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	parent := postThread(t, db, alice, "original")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodPost, "/threads",
		gin.H{"replying": parent, "sharing": parent, "message": gin.H{"content": "both"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"non_field_errors": ["Thread can not be a reply and a share at the same time."]}`, w.Body.String())
}

func TestCreateThreadReplyRequiresMessage(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	parent := postThread(t, db, alice, "original")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodPost, "/threads",
		gin.H{"replying": parent})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"non_field_errors": ["Thread reply must have a message."]}`, w.Body.String())
}

func TestCreateThreadShareWithoutMessage(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	parent := postThread(t, db, alice, "original")

	w := doRequest(t, threadRouter(db, bob.ID), http.MethodPost, "/threads",
		gin.H{"sharing": parent})
	require.Equal(t, http.StatusCreated, w.Code)

	var share models.Thread
	require.NoError(t, db.Where("created_by_id = ?", bob.ID).First(&share).Error)
	require.NotNil(t, share.SharingID)
	assert.Equal(t, parent, *share.SharingID)
	assert.Nil(t, share.MessageID)
}

func TestCreateThreadEmpty(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodPost, "/threads", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"non_field_errors": ["Thread must have a message."]}`, w.Body.String())
}

func TestCreateThreadReplyToMissingThread(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodPost, "/threads",
		gin.H{"replying": 9999, "message": gin.H{"content": "orphan"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateThreadReply(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	parent := postThread(t, db, alice, "original")

	w := doRequest(t, threadRouter(db, bob.ID), http.MethodPost, "/threads",
		gin.H{"replying": parent, "message": gin.H{"content": "nice one"}})
	require.Equal(t, http.StatusCreated, w.Code)

	var reply models.Thread
	require.NoError(t, db.Preload("Message").Where("created_by_id = ?", bob.ID).First(&reply).Error)
	require.NotNil(t, reply.ReplyingID)
	assert.Equal(t, parent, *reply.ReplyingID)
	require.NotNil(t, reply.Message)
	assert.Equal(t, "nice one", reply.Message.Content)
}

func TestDeleteThreadCreatorOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	id := postThread(t, db, alice, "mine")

	w := doRequest(t, threadRouter(db, bob.ID), http.MethodDelete, fmt.Sprintf("/threads/%d", id), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, threadRouter(db, alice.ID), http.MethodDelete, fmt.Sprintf("/threads/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListThreads(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	postThread(t, db, alice, "one")
	postThread(t, db, alice, "two")

	w := doRequest(t, threadRouter(db, alice.ID), http.MethodGet, "/threads", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, body["threads"].([]interface{}), 2)
}

package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/habbit-app/api-go/config"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateModels(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	username := fmt.Sprintf("user-%d", user.ID)
	require.NoError(t, db.Model(&user).Update("username", username).Error)
	user.Username = &username
	return user
}

func createPlaylist(t *testing.T, db *gorm.DB, creator models.User, title string) models.Playlist {
	t.Helper()
	playlist := models.Playlist{CreatedByID: creator.ID, Title: title}
	require.NoError(t, db.Create(&playlist).Error)
	return playlist
}

func createComment(t *testing.T, db *gorm.DB, author models.User, playlist models.Playlist, content string) models.Comment {
	t.Helper()
	comment := models.Comment{CreatedByID: author.ID, PlaylistID: playlist.ID, Content: content}
	require.NoError(t, db.Create(&comment).Error)
	return comment
}

// asUser stands in for the auth middleware in tests.
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.SetUser(c, &utils.UserClaims{UserID: userID})
		c.Next()
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakePublisher struct {
	queue string
	body  []byte
	calls int
}

func (f *fakePublisher) Publish(queue string, body []byte) error {
	f.queue = queue
	f.body = body
	f.calls++
	return nil
}

func resetRouter(db *gorm.DB, signer *utils.TimestampSigner, mq *fakePublisher) *gin.Engine {
	r := gin.New()
	rc := NewResetPasswordController(db, signer, mq)
	r.POST("/reset-password/get-token", rc.GetToken)
	r.POST("/reset-password/validate-token", rc.ValidateToken)
	r.POST("/reset-password", rc.ResetPassword)
	return r
}

func storedResetToken(t *testing.T, db *gorm.DB, userID uint) *string {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.ResetToken
}

func TestGetTokenUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token",
		gin.H{"email": "nobody@example.com"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTokenIssuesAndPublishes(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	mq := &fakePublisher{}
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), mq)

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token",
		gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	otp := int(body["token"].(float64))
	assert.GreaterOrEqual(t, otp, 100000)
	assert.LessOrEqual(t, otp, 999999)

	require.NotNil(t, storedResetToken(t, db, user.ID))

	require.Equal(t, 1, mq.calls)
	assert.Equal(t, "notifications.reset_password_otp", mq.queue)
	var mail struct {
		Email string `json:"email"`
		OTP   int    `json:"otp"`
	}
	require.NoError(t, json.Unmarshal(mq.body, &mail))
	assert.Equal(t, user.Email, mail.Email)
	assert.Equal(t, otp, mail.OTP)
}

func TestGetTokenReplacesPreviousToken(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	first := int(decodeBody(t, w)["token"].(float64))

	w = doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	second := int(decodeBody(t, w)["token"].(float64))

	// The latest issuance is the live envelope.
	w = doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", second)})
	assert.Equal(t, http.StatusOK, w.Code)

	// The previous one is dead, unless both draws produced the same OTP, in
	// which case the old code genuinely is the live envelope.
	if first != second {
		w = doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
			gin.H{"email": user.Email, "token": fmt.Sprintf("%d", first)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestValidateTokenMatch(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	otp := int(decodeBody(t, w)["token"].(float64))

	w = doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", otp)})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, fmt.Sprintf("%d", otp), body["token"])
}

func TestValidateTokenMismatchKeepsToken(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	otp := int(decodeBody(t, w)["token"].(float64))

	wrong := 100000
	if wrong == otp {
		wrong = 100001
	}

	w = doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", wrong)})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"token": ["Invalid token"]}`, w.Body.String())

	// A mismatch does not consume the envelope.
	assert.NotNil(t, storedResetToken(t, db, user.ID))

	w = doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", otp)})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateTokenWithoutIssuance(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": "123456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"token": ["Invalid token"]}`, w.Body.String())
}

func TestValidateTokenExpiredClearsToken(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")

	signer := utils.NewTimestampSigner("secret", -time.Second)
	envelope, err := signer.Sign(123456, user.Email)
	require.NoError(t, err)
	require.NoError(t, db.Model(&user).Update("reset_token", envelope).Error)

	r := resetRouter(db, signer, &fakePublisher{})
	w := doRequest(t, r, http.MethodPost, "/reset-password/validate-token",
		gin.H{"email": user.Email, "token": "123456"})

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status": "failure", "message": "token has expired"}`, w.Body.String())

	// Expiry consumes the envelope.
	assert.Nil(t, storedResetToken(t, db, user.ID))
}

func TestResetPasswordLifecycle(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	otp := int(decodeBody(t, w)["token"].(float64))

	w = doRequest(t, r, http.MethodPost, "/reset-password",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", otp), "password": "brand-new-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "success", "message": "Password reset"}`, w.Body.String())

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("brand-new-pass")))
	assert.Nil(t, updated.ResetToken)

	// The envelope is single-use.
	w = doRequest(t, r, http.MethodPost, "/reset-password",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", otp), "password": "another-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordEnvelopeConsumedMidRequest(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	otp := int(decodeBody(t, w)["token"].(float64))

	// Clear the envelope from inside the reset's own transaction, after the
	// handler has already validated it, the way a racing reset would.
	armed := true
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("consume_envelope", func(tx *gorm.DB) {
			if !armed {
				return
			}
			if _, ok := tx.Statement.Model.(*models.User); !ok {
				return
			}
			armed = false
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE users SET reset_token = NULL WHERE id = ?", user.ID)
		}))
	defer db.Callback().Update().Remove("consume_envelope")

	w = doRequest(t, r, http.MethodPost, "/reset-password",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", otp), "password": "brand-new-pass"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"token": ["Invalid token"]}`, w.Body.String())

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("password123")))
}

func TestResetPasswordWrongTokenLeavesPassword(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice@example.com")
	r := resetRouter(db, utils.NewTimestampSigner("secret", 10*time.Minute), &fakePublisher{})

	w := doRequest(t, r, http.MethodPost, "/reset-password/get-token", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)
	otp := int(decodeBody(t, w)["token"].(float64))

	wrong := 100000
	if wrong == otp {
		wrong = 100001
	}

	w = doRequest(t, r, http.MethodPost, "/reset-password",
		gin.H{"email": user.Email, "token": fmt.Sprintf("%d", wrong), "password": "brand-new-pass"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("password123")))
	assert.NotNil(t, updated.ResetToken)
}

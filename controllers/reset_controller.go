package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/rabbitmq"
	"github.com/habbit-app/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetPasswordController runs the OTP lifecycle: issue a signed envelope,
// verify possession and freshness, then allow one password change.
type ResetPasswordController struct {
	DB     *gorm.DB
	Signer *utils.TimestampSigner
	MQ     rabbitmq.Publisher
}

func NewResetPasswordController(db *gorm.DB, signer *utils.TimestampSigner, mq rabbitmq.Publisher) *ResetPasswordController {
	return &ResetPasswordController{DB: db, Signer: signer, MQ: mq}
}

// errEnvelopeConsumed means another request cleared or replaced the stored
// envelope after this one validated it.
var errEnvelopeConsumed = errors.New("reset token already consumed")

type resetMailPayload struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

// GetToken issues a fresh OTP for the account, replacing any previous one.
func (rc *ResetPasswordController) GetToken(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := rc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	otp := utils.GenerateOTP()
	envelope, err := rc.Signer.Sign(otp, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	if err := rc.DB.Model(&user).Update("reset_token", envelope).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store token", "success": false})
		return
	}

	// Mail delivery is fire-and-forget: a broker outage must not undo the
	// issuance.
	if rc.MQ != nil {
		body, _ := json.Marshal(resetMailPayload{Email: user.Email, OTP: otp})
		if err := rc.MQ.Publish(rabbitmq.ResetPasswordMailQueue, body); err != nil {
			log.Printf("failed to publish reset OTP mail for %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"token": otp})
}

func (rc *ResetPasswordController) ValidateToken(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Token string `json:"token" binding:"required,max=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := rc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	if status, body := rc.checkToken(&user, input.Token); status != http.StatusOK {
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": input.Email, "token": input.Token})
}

func (rc *ResetPasswordController) ResetPassword(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Token    string `json:"token" binding:"required,max=6"`
		Password string `json:"password" binding:"required,min=8,max=100"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := rc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	if status, body := rc.checkToken(&user, input.Token); status != http.StatusOK {
		c.JSON(status, body)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	// The clear is conditional on the envelope still being the one we just
	// validated, so of two concurrent resets only one consumes it; the loser
	// matches zero rows and is turned away.
	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&user).
			Where("reset_token = ?", *user.ResetToken).
			Updates(map[string]interface{}{
				"password":    string(hashed),
				"reset_token": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errEnvelopeConsumed
		}
		return nil
	})
	if errors.Is(err, errEnvelopeConsumed) {
		c.JSON(http.StatusBadRequest, gin.H{"token": []string{"Invalid token"}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reset password", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password reset"})
}

// checkToken verifies the stored envelope against a candidate OTP. An expired
// envelope is cleared so the next issuance starts clean; a mismatch leaves it
// in place. Returns http.StatusOK with a nil body on success.
func (rc *ResetPasswordController) checkToken(user *models.User, candidate string) (int, gin.H) {
	if user.ResetToken == nil || *user.ResetToken == "" {
		return http.StatusBadRequest, gin.H{"token": []string{"Invalid token"}}
	}

	otp, email, err := rc.Signer.Unsign(*user.ResetToken)
	if err == utils.ErrTokenExpired {
		// Only clear the envelope we just inspected; a newer issuance must
		// survive this request.
		if dbErr := rc.DB.Model(user).
			Where("reset_token = ?", *user.ResetToken).
			Update("reset_token", nil).Error; dbErr != nil {
			return http.StatusInternalServerError, gin.H{"error": "Could not clear token", "success": false}
		}
		return http.StatusForbidden, gin.H{"status": "failure", "message": "token has expired"}
	}
	if err != nil {
		return http.StatusBadRequest, gin.H{"token": []string{"Invalid token"}}
	}

	if email != user.Email || candidate != strconv.Itoa(otp) {
		return http.StatusBadRequest, gin.H{"token": []string{"Invalid token"}}
	}

	return http.StatusOK, nil
}

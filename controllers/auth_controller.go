package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/config"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	Config       *config.Config
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{
		DB:           db,
		Config:       cfg,
		GoogleConfig: config.NewGoogleConfig(),
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		Username    string `json:"username"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Bio         string `json:"bio"`
		Location    string `json:"location"`
		DateOfBirth string `json:"date_of_birth"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		if parsed, err := time.Parse("2006-01-02", input.DateOfBirth); err == nil {
			dateOfBirth = &parsed
		}
	}

	var username *string
	if input.Username != "" {
		username = &input.Username
	}

	user := models.User{
		Email:       input.Email,
		Username:    username,
		Password:    string(hashedPassword),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Bio:         input.Bio,
		Location:    input.Location,
		DateOfBirth: dateOfBirth,
		Provider:    "email",
		IsActive:    false, // activation endpoint flips this
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists", "success": false})
		return
	}

	// Usernames are optional on signup; derive one from the email local part.
	if user.Username == nil {
		generated := fmt.Sprintf("%s-%d", strings.Split(user.Email, "@")[0], user.ID)
		user.Username = &generated
		ac.DB.Save(&user)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"is_active":  user.IsActive,
		},
	})
}

// Activate enables login for a freshly registered account. Staff accounts
// are not reachable through this endpoint.
func (ac *AuthController) Activate(c *gin.Context) {
	var user models.User
	if err := ac.DB.Where("is_staff = ?", false).First(&user, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	user.IsActive = true
	if err := ac.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate user", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Deactivate soft-disables the caller's own account; rows are never hard
// deleted.
func (ac *AuthController) Deactivate(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID, _ := strconv.Atoi(c.Param("userId"))
	if uint(userID) != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only deactivate your own account", "success": false})
		return
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active", "success": false})
		return
	}

	accessToken, refreshToken, err := ac.issueTokenPair(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "username": user.Username, "profilePicture": user.ProfilePicture},
		"success":       true,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	accessToken, err := ac.signAccessToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate access token", "success": false})
		return
	}

	newRefreshToken, err := ac.signRefreshToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token", "success": false})
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(time.Hour * 24 * 30)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "username": user.Username, "profilePicture": user.ProfilePicture},
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	result := ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		Location  string `json:"location"`
		Password  string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"bio":        input.Bio,
		"location":   input.Location,
	}

	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}
		updates["password"] = string(hashed)
	}

	if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured", "success": false})
		return
	}

	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	if input.Code != "" && input.RedirectURI != "" {
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange code for token", "success": false})
			return
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	} else if input.IDToken != "" {
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	} else if input.AccessToken != "" {
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either code with redirect_uri, id_token, or access_token is required", "success": false})
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	var user models.User
	userExists := ac.DB.Where("google_id = ? OR email = ?", userInfo.ID, userInfo.Email).First(&user).Error == nil

	if userExists {
		if user.GoogleID == nil || *user.GoogleID == "" {
			user.GoogleID = &userInfo.ID
			user.Provider = "google"
			user.ProviderID = userInfo.ID
			if user.ProfilePicture == "" && userInfo.Picture != "" {
				user.ProfilePicture = userInfo.Picture
			}
			ac.DB.Save(&user)
		}
	} else {
		username := userInfo.Email
		counter := 1
		for {
			var existing models.User
			if ac.DB.Where("username = ?", username).First(&existing).Error != nil {
				break
			}
			username = userInfo.Email + strconv.Itoa(counter)
			counter++
		}

		user = models.User{
			Email:          userInfo.Email,
			Username:       &username,
			FirstName:      userInfo.GivenName,
			LastName:       userInfo.FamilyName,
			ProfilePicture: userInfo.Picture,
			GoogleID:       &userInfo.ID,
			Provider:       "google",
			ProviderID:     userInfo.ID,
			IsActive:       userInfo.VerifiedEmail,
		}

		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "success": false})
			return
		}
	}

	accessToken, refreshToken, err := ac.issueTokenPair(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "username": user.Username, "profilePicture": user.ProfilePicture},
		"success":       true,
	})
}

func (ac *AuthController) signAccessToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	return token.SignedString([]byte(ac.Config.JWTSecret))
}

func (ac *AuthController) signRefreshToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	return token.SignedString([]byte(ac.Config.JWTSecret))
}

func (ac *AuthController) issueTokenPair(user *models.User) (string, string, error) {
	accessToken, err := ac.signAccessToken(user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := ac.signRefreshToken(user)
	if err != nil {
		return "", "", err
	}

	err = ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	}).Error

	return accessToken, refreshToken, err
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

type FollowController struct {
	DB *gorm.DB
}

func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{DB: db}
}

// Follow creates a follower->followed edge. Self-follow and duplicate edges
// are rejected by the table's constraints inside the insert transaction.
func (fc *FollowController) Follow(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var target models.User
	if err := fc.DB.Where("is_active = ?", true).First(&target, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	follow := models.Follow{
		FollowerID: claims.UserID,
		FollowedID: target.ID,
	}

	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}

		notification := models.Notification{
			RecipientID: target.ID,
			ActorID:     claims.UserID,
			Type:        "follow",
			Data:        fmt.Sprintf(`{"message": "user %d started following you"}`, claims.UserID),
		}
		return tx.Create(&notification).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"followed_user": []string{"User is already being followed."}})
			return
		}
		if isCheckViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"following": true,
		"user_id":   target.ID,
		"since":     follow.CreatedAt,
		"blocked":   follow.Blocked,
	})
}

// Unfollow removes the caller's own edge only.
func (fc *FollowController) Unfollow(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	result := fc.DB.Where("follower_id = ? AND followed_id = ?", claims.UserID, c.Param("userId")).
		Delete(&models.Follow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Following user with this id not found"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ToggleBlock flips the blocked flag on an edge pointing at the caller. Only
// the followed user can block one of their followers.
func (fc *FollowController) ToggleBlock(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID, _ := strconv.Atoi(c.Param("userId"))
	if uint(userID) != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only block your own followers"})
		return
	}

	var follow models.Follow
	if err := fc.DB.Where("follower_id = ? AND followed_id = ?", c.Param("followerId"), claims.UserID).
		First(&follow).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follower with this id not found"})
		return
	}

	follow.Blocked = !follow.Blocked
	if err := fc.DB.Save(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follower"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": follow.FollowerID, "blocked": follow.Blocked})
}

type followEntry struct {
	UserID    uint      `json:"userId"`
	Username  *string   `json:"username"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"followedAt"`
}

func (fc *FollowController) ListFollowers(c *gin.Context) {
	userID := c.Param("userId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	fc.DB.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&total)

	var followers []followEntry
	result := fc.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.username, follows.blocked, follows.created_at").
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.followed_id = ? AND users.is_active = ?", userID, true).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&followers)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers":  followers,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (fc *FollowController) ListFollowing(c *gin.Context) {
	userID := c.Param("userId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	fc.DB.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&total)

	var following []followEntry
	result := fc.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.username, follows.blocked, follows.created_at").
		Joins("JOIN users ON users.id = follows.followed_id").
		Where("follows.follower_id = ? AND users.is_active = ?", userID, true).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&following)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching following users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following":  following,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

// NotificationController scopes every operation to the authenticated user;
// the recipient is always read from the JWT claims, never from the request.
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func (nc *NotificationController) ListNotifications(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	query := nc.DB.Model(&models.Notification{}).Where("recipient_id = ?", claims.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("unread = ?", true)
	}

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	result := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&notifications)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination":    paginationMeta(page, pageSize, total),
	})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND unread = ?", claims.UserID, true).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkAllRead flips every unread notification of the caller and reports how
// many rows changed.
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	result := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND unread = ?", claims.UserID, true).
		Update("unread", false)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": result.RowsAffected})
}

func (nc *NotificationController) DeleteAll(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	result := nc.DB.Where("recipient_id = ?", claims.UserID).Delete(&models.Notification{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected})
}

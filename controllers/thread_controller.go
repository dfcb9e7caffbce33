package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ThreadController struct {
	DB *gorm.DB
}

func NewThreadController(db *gorm.DB) *ThreadController {
	return &ThreadController{DB: db}
}

type messageInput struct {
	Content       string   `json:"content" binding:"required"`
	Hashtags      []string `json:"hashtags"`
	AttachmentIDs []uint   `json:"attachment_ids"`
}

// CreateThread posts a feed node: a standalone thread, a reply, or a share.
// A thread cannot be both a reply and a share, and a reply must carry a
// message; a share may omit it.
func (tc *ThreadController) CreateThread(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		ReplyingID *uint         `json:"replying"`
		SharingID  *uint         `json:"sharing"`
		Message    *messageInput `json:"message"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ReplyingID != nil && input.SharingID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Thread can not be a reply and a share at the same time."}})
		return
	}
	if input.ReplyingID != nil && input.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Thread reply must have a message."}})
		return
	}
	if input.ReplyingID == nil && input.SharingID == nil && input.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Thread must have a message."}})
		return
	}

	if input.ReplyingID != nil {
		var parent models.Thread
		if err := tc.DB.First(&parent, *input.ReplyingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread being replied to not found"})
			return
		}
	}
	if input.SharingID != nil {
		var shared models.Thread
		if err := tc.DB.First(&shared, *input.SharingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread being shared not found"})
			return
		}
	}

	thread := models.Thread{
		CreatedByID: claims.UserID,
		ReplyingID:  input.ReplyingID,
		SharingID:   input.SharingID,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if input.Message != nil {
			message := models.Message{
				Content:  input.Message.Content,
				Hashtags: pq.StringArray(input.Message.Hashtags),
			}

			if len(input.Message.AttachmentIDs) > 0 {
				var attachments []models.Attachment
				if err := tx.Find(&attachments, input.Message.AttachmentIDs).Error; err != nil {
					return err
				}
				message.Attachments = attachments
			}

			if err := tx.Create(&message).Error; err != nil {
				return err
			}
			thread.MessageID = &message.ID
			thread.Message = &message
		}

		return tx.Create(&thread).Error
	})

	if err != nil {
		if isCheckViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Thread can not be a reply and a share at the same time."}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thread"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "thread": thread})
}

func (tc *ThreadController) ListThreads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	tc.DB.Model(&models.Thread{}).Count(&total)

	var threads []models.Thread
	result := tc.DB.
		Preload("Message").
		Preload("Message.Attachments").
		Preload("CreatedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&threads)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching threads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threads":    threads,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (tc *ThreadController) GetThread(c *gin.Context) {
	var thread models.Thread
	if err := tc.DB.
		Preload("Message").
		Preload("Message.Attachments").
		Preload("CreatedBy").
		First(&thread, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "thread": thread})
}

func (tc *ThreadController) DeleteThread(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var thread models.Thread
	if err := tc.DB.First(&thread, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	if thread.CreatedByID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own threads"})
		return
	}

	if err := tc.DB.Delete(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete thread"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

type CommentController struct {
	DB *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

// ListPlaylistComments returns the top-level comments of a playlist; replies
// hang off their parent and are not listed here.
func (cc *CommentController) ListPlaylistComments(c *gin.Context) {
	var playlist models.Playlist
	if err := cc.DB.First(&playlist, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	cc.DB.Model(&models.Comment{}).
		Where("playlist_id = ? AND replying_id IS NULL", playlist.ID).
		Count(&total)

	var comments []models.Comment
	result := cc.DB.Where("playlist_id = ? AND replying_id IS NULL", playlist.ID).
		Preload("CreatedBy").
		Preload("Attachments").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&comments)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var playlist models.Playlist
	if err := cc.DB.First(&playlist, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	var input struct {
		Content       string `json:"content" binding:"required"`
		ReplyingID    *uint  `json:"replying_id"`
		AttachmentIDs []uint `json:"attachment_ids"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A reply must target a comment on this same playlist.
	if input.ReplyingID != nil {
		var parent models.Comment
		if err := cc.DB.First(&parent, *input.ReplyingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment being replied to not found"})
			return
		}
		if parent.PlaylistID != playlist.ID {
			c.JSON(http.StatusBadRequest, gin.H{"replying": []string{"Reply must belong to the same playlist as the comment"}})
			return
		}
	}

	comment := models.Comment{
		CreatedByID: claims.UserID,
		PlaylistID:  playlist.ID,
		ReplyingID:  input.ReplyingID,
		Content:     input.Content,
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if len(input.AttachmentIDs) > 0 {
			var attachments []models.Attachment
			if err := tx.Find(&attachments, input.AttachmentIDs).Error; err != nil {
				return err
			}
			comment.Attachments = attachments
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if playlist.CreatedByID != claims.UserID {
			notification := models.Notification{
				RecipientID: playlist.CreatedByID,
				ActorID:     claims.UserID,
				Type:        "comment",
				Data:        fmt.Sprintf(`{"message": "user %d commented on your playlist"}`, claims.UserID),
			}
			return tx.Create(&notification).Error
		}
		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

func (cc *CommentController) GetComment(c *gin.Context) {
	var comment models.Comment
	if err := cc.DB.Where("playlist_id = ?", c.Param("id")).
		Preload("CreatedBy").
		Preload("Attachments").
		First(&comment, c.Param("commentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var comment models.Comment
	if err := cc.DB.Where("playlist_id = ?", c.Param("id")).
		First(&comment, c.Param("commentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.CreatedByID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.DB.Model(&comment).Update("content", input.Content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var comment models.Comment
	if err := cc.DB.Where("playlist_id = ?", c.Param("id")).
		First(&comment, c.Param("commentId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.CreatedByID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := cc.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

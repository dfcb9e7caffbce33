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

type LikeController struct {
	DB *gorm.DB
}

func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{DB: db}
}

// CreateLike records a like on exactly one of {playlist, comment}. Users
// cannot like their own content, and the unique indexes reject a second like
// on the same target.
func (lc *LikeController) CreateLike(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		PlaylistID *uint `json:"playlist_id"`
		CommentID  *uint `json:"comment_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (input.PlaylistID == nil) == (input.CommentID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Like must reference either a playlist or a comment"})
		return
	}

	var creatorID, recipientID uint
	var likeType string
	if input.PlaylistID != nil {
		var playlist models.Playlist
		if err := lc.DB.First(&playlist, *input.PlaylistID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
			return
		}
		creatorID, recipientID, likeType = playlist.CreatedByID, playlist.CreatedByID, "like_playlist"
	} else {
		var comment models.Comment
		if err := lc.DB.First(&comment, *input.CommentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		creatorID, recipientID, likeType = comment.CreatedByID, comment.CreatedByID, "like_comment"
	}

	if creatorID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot like your own content"})
		return
	}

	like := models.Like{
		CreatedByID: claims.UserID,
		PlaylistID:  input.PlaylistID,
		CommentID:   input.CommentID,
	}

	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}

		notification := models.Notification{
			RecipientID: recipientID,
			ActorID:     claims.UserID,
			Type:        likeType,
			Data:        fmt.Sprintf(`{"message": "user %d liked your content"}`, claims.UserID),
		}
		return tx.Create(&notification).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already liked"})
			return
		}
		if isCheckViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Like must reference either a playlist or a comment"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create like"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "like": like})
}

func (lc *LikeController) ListMyLikes(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	lc.DB.Model(&models.Like{}).Where("created_by_id = ?", claims.UserID).Count(&total)

	var likes []models.Like
	result := lc.DB.Where("created_by_id = ?", claims.UserID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&likes)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes":      likes,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (lc *LikeController) DeleteLike(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var like models.Like
	if err := lc.DB.First(&like, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Like not found"})
		return
	}

	if like.CreatedByID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only remove your own likes"})
		return
	}

	if err := lc.DB.Delete(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete like"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

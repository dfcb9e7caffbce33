package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

type PlaylistController struct {
	DB *gorm.DB
}

func NewPlaylistController(db *gorm.DB) *PlaylistController {
	return &PlaylistController{DB: db}
}

func (pc *PlaylistController) CreatePlaylist(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Title            string   `json:"title" binding:"required,max=120"`
		ShortDescription string   `json:"short_description"`
		CoverImage       string   `json:"cover_image"`
		ActiveHours      int      `json:"active_hours"`
		Categories       []string `json:"categories"`
		SongIDs          []uint   `json:"song_ids"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ActiveHours == 0 {
		input.ActiveHours = 24
	}

	playlist := models.Playlist{
		CreatedByID:      claims.UserID,
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		CoverImage:       input.CoverImage,
		ActiveHours:      input.ActiveHours,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		// Categories are shared rows keyed by title; reuse existing ones.
		for _, title := range input.Categories {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			var category models.PlaylistCategory
			if err := tx.Where("title = ?", title).
				FirstOrCreate(&category, models.PlaylistCategory{Title: title}).Error; err != nil {
				return err
			}
			playlist.Categories = append(playlist.Categories, category)
		}

		if len(input.SongIDs) > 0 {
			var songs []models.Attachment
			if err := tx.Find(&songs, input.SongIDs).Error; err != nil {
				return err
			}
			playlist.Songs = songs
		}

		return tx.Create(&playlist).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"title": []string{"You already have a playlist with this title"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create playlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "playlist": playlist})
}

func (pc *PlaylistController) ListPlaylists(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	query := pc.DB.Model(&models.Playlist{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.
			Joins("JOIN playlist_categories_m2m pcm ON pcm.playlist_id = playlists.id").
			Joins("JOIN playlist_categories pc ON pc.id = pcm.playlist_category_id").
			Where("pc.title = ?", category)
	}

	var total int64
	query.Count(&total)

	var playlists []models.Playlist
	result := query.
		Preload("Categories").
		Preload("CreatedBy").
		Order("playlists.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&playlists)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching playlists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playlists":  playlists,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (pc *PlaylistController) GetPlaylist(c *gin.Context) {
	var playlist models.Playlist
	if err := pc.DB.
		Preload("Categories").
		Preload("Songs").
		Preload("CreatedBy").
		First(&playlist, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	pc.DB.Model(&playlist).UpdateColumn("views", gorm.Expr("views + 1"))
	playlist.Views++

	c.JSON(http.StatusOK, gin.H{"success": true, "playlist": playlist})
}

func (pc *PlaylistController) DeletePlaylist(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var playlist models.Playlist
	if err := pc.DB.First(&playlist, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	if playlist.CreatedByID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own playlists"})
		return
	}

	if err := pc.DB.Delete(&playlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete playlist"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (pc *PlaylistController) ListUserPlaylists(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	offset := (page - 1) * pageSize

	var total int64
	pc.DB.Model(&models.Playlist{}).Where("created_by_id = ?", c.Param("userId")).Count(&total)

	var playlists []models.Playlist
	result := pc.DB.Where("created_by_id = ?", c.Param("userId")).
		Preload("Categories").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&playlists)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching playlists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playlists":  playlists,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (pc *PlaylistController) ListCategories(c *gin.Context) {
	var categories []models.PlaylistCategory
	if err := pc.DB.Order("title").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

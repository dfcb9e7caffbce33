package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/habbit-app/api-go/config"
	"github.com/habbit-app/api-go/models"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	MediaType   string `json:"mediaType" binding:"required,oneof=audio image"`
}

type UploadCompleteRequest struct {
	Key         string `json:"key" binding:"required"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetPresignedURL hands the client a short-lived PUT URL for a song or image
// attachment; the file never passes through this service.
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidFileType(req.ContentType, req.MediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type for media type"})
		return
	}

	if !uc.isValidFileSize(req.FileSize, req.MediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit"})
		return
	}

	key := uc.generateFileKey(claims.UserID, req.FileName, req.MediaType)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": presignedURL,
		"fileUrl":   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
		"key":       key,
		"expiresIn": 3600,
	})
}

// UploadComplete records the attachment row once the client finished the PUT.
func (uc *UploadController) UploadComplete(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req UploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.verifyFileOwnership(req.Key, claims.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this upload"})
		return
	}

	exists, err := uc.verifyFileExists(req.Key)
	if err != nil || !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file not found"})
		return
	}

	attachment := models.Attachment{
		CreatedByID: claims.UserID,
		Key:         req.Key,
		FileURL:     fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, req.Key),
		Type:        req.ContentType,
		Name:        req.Name,
		Size:        req.FileSize,
	}

	if err := uc.DB.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attachment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "attachment": attachment})
}

func (uc *UploadController) RequestAvatarUpload(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidAvatarFile(req.ContentType, req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar file"})
		return
	}

	tempKey := uc.generateTempAvatarKey(req.FileName)

	presignedURL, err := uc.createPresignedURL(tempKey, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": presignedURL,
		"tempKey":   tempKey,
		"expiresIn": 3600,
	})
}

// ConfirmAvatarUpload moves the temp object to its permanent key and updates
// the caller's profile picture.
func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req struct {
		TempKey string `json:"tempKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permanentKey := uc.generateAvatarKey(claims.UserID, req.TempKey)
	if err := uc.moveFile(req.TempKey, permanentKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize avatar"})
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, permanentKey)
	if err := uc.DB.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("profile_picture", avatarURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "avatar": avatarURL})
}

func (uc *UploadController) CleanupTempAvatar(c *gin.Context) {
	var req struct {
		TempKey string `json:"tempKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !strings.HasPrefix(req.TempKey, "temp/avatars/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key"})
		return
	}

	if err := uc.deleteFile(req.TempKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Temporary avatar cleaned up successfully"})
}

func (uc *UploadController) isValidFileType(contentType, mediaType string) bool {
	validTypes := map[string][]string{
		"audio": {
			"audio/mpeg", "audio/mp4", "audio/aac", "audio/ogg", "audio/wav", "audio/flac",
		},
		"image": {
			"image/jpeg", "image/jpg", "image/png", "image/webp",
		},
	}

	allowed, exists := validTypes[mediaType]
	if !exists {
		return false
	}

	for _, validType := range allowed {
		if contentType == validType {
			return true
		}
	}
	return false
}

func (uc *UploadController) isValidFileSize(fileSize int64, mediaType string) bool {
	limits := map[string]int64{
		"audio": 20 * 1024 * 1024,
		"image": 10 * 1024 * 1024,
	}

	limit, exists := limits[mediaType]
	if !exists {
		return false
	}

	return fileSize <= limit
}

func (uc *UploadController) isValidAvatarFile(contentType string, fileSize int64) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	}

	validType := false
	for _, validContentType := range validTypes {
		if contentType == validContentType {
			validType = true
			break
		}
	}

	if !validType {
		return false
	}

	return fileSize <= 5*1024*1024
}

func (uc *UploadController) generateFileKey(userID uint, fileName, mediaType string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("uploads/%s/%d/%d_%s%s", mediaType, userID, timestamp, id, ext)
}

func (uc *UploadController) generateTempAvatarKey(fileName string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("temp/avatars/%d_%s%s", timestamp, id, ext)
}

func (uc *UploadController) generateAvatarKey(userID uint, tempKey string) string {
	ext := filepath.Ext(tempKey)
	timestamp := time.Now().Unix()

	return fmt.Sprintf("users/%d/avatar/%d_avatar%s", userID, timestamp, ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})

	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.HeadObject(context.TODO(), input)
	if err != nil {
		return false, nil
	}

	return true, nil
}

func (uc *UploadController) deleteFile(key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.DeleteObject(context.TODO(), input)
	return err
}

func (uc *UploadController) moveFile(sourceKey, destKey string) error {
	copyInput := &s3.CopyObjectInput{
		Bucket:     aws.String(uc.R2Config.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", uc.R2Config.BucketName, sourceKey)),
		Key:        aws.String(destKey),
	}

	_, err := uc.R2Client.CopyObject(context.TODO(), copyInput)
	if err != nil {
		return err
	}

	return uc.deleteFile(sourceKey)
}

// Key layout: uploads/{mediaType}/{userID}/{timestamp}_{uuid}{ext}
func (uc *UploadController) verifyFileOwnership(key string, userID uint) bool {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return false
	}

	return fmt.Sprintf("%d", userID) == parts[2]
}

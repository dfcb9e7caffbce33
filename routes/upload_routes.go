package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := protected.Group("/upload")
	{
		// Presigned PUT URL for songs and cover images
		upload.POST("/presigned-url", uploadController.GetPresignedURL)

		// Record the attachment once the client finished the PUT
		upload.POST("/complete", uploadController.UploadComplete)

		// Avatar flow: temp upload, confirm, cleanup
		upload.POST("/avatar", uploadController.RequestAvatarUpload)
		upload.POST("/avatar/confirm", uploadController.ConfirmAvatarUpload)
		upload.POST("/avatar/cleanup", uploadController.CleanupTempAvatar)
	}
}

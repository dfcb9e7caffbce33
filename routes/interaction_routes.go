package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, likeController *controllers.LikeController, notificationController *controllers.NotificationController) {
	likes := protected.Group("/likes")
	{
		likes.POST("", likeController.CreateLike)
		likes.GET("", likeController.ListMyLikes)
		likes.DELETE("/:id", likeController.DeleteLike)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationController.ListNotifications)
		notifications.GET("/unread-count", notificationController.UnreadCount)
		notifications.PUT("/mark-all-read", notificationController.MarkAllRead)
		notifications.DELETE("", notificationController.DeleteAll)
	}
}

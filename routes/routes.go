package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/config"
	"github.com/habbit-app/api-go/controllers"
	"github.com/habbit-app/api-go/middleware"
	"github.com/habbit-app/api-go/rabbitmq"
	"github.com/habbit-app/api-go/utils"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, mq rabbitmq.Publisher) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, cfg)
	resetController := controllers.NewResetPasswordController(
		db,
		utils.NewTimestampSigner(cfg.ResetTokenSecret, cfg.ResetTokenMaxAge),
		mq,
	)
	followController := controllers.NewFollowController(db)
	playlistController := controllers.NewPlaylistController(db)
	commentController := controllers.NewCommentController(db)
	threadController := controllers.NewThreadController(db)
	likeController := controllers.NewLikeController(db)
	notificationController := controllers.NewNotificationController(db)
	uploadController := controllers.NewUploadController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/google-login", authController.GoogleLogin)
		public.PUT("/users/:userId/activate", authController.Activate)

		public.POST("/reset-password/get-token", resetController.GetToken)
		public.POST("/reset-password/validate-token", resetController.ValidateToken)
		public.POST("/reset-password", resetController.ResetPassword)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.PUT("/users/:userId/deactivate", authController.Deactivate)
		// User routes
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		// Setup other routes within the protected group
		SetupFollowRoutes(protected, followController)
		SetupPlaylistRoutes(protected, playlistController, commentController)
		SetupThreadRoutes(protected, threadController)
		SetupInteractionRoutes(protected, likeController, notificationController)
		SetupUploadRoutes(protected, uploadController)
	}
}

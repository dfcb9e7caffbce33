package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/controllers"
)

func SetupFollowRoutes(protected *gin.RouterGroup, followController *controllers.FollowController) {
	users := protected.Group("/users")
	{
		users.POST("/:userId/follow", followController.Follow)
		users.DELETE("/:userId/follow", followController.Unfollow)
		users.GET("/:userId/followers", followController.ListFollowers)
		users.GET("/:userId/following", followController.ListFollowing)
		users.PUT("/:userId/followers/:followerId/block", followController.ToggleBlock)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/controllers"
)

func SetupThreadRoutes(protected *gin.RouterGroup, threadController *controllers.ThreadController) {
	threads := protected.Group("/threads")
	{
		threads.POST("", threadController.CreateThread)
		threads.GET("", threadController.ListThreads)
		threads.GET("/:id", threadController.GetThread)
		threads.DELETE("/:id", threadController.DeleteThread)
	}
}

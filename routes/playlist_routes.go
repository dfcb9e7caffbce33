package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/habbit-app/api-go/controllers"
)

func SetupPlaylistRoutes(protected *gin.RouterGroup, playlistController *controllers.PlaylistController, commentController *controllers.CommentController) {
	playlists := protected.Group("/playlists")
	{
		playlists.POST("", playlistController.CreatePlaylist)
		playlists.GET("", playlistController.ListPlaylists)
		playlists.GET("/:id", playlistController.GetPlaylist)
		playlists.DELETE("/:id", playlistController.DeletePlaylist)

		// Comments live under their playlist
		playlists.GET("/:id/comments", commentController.ListPlaylistComments)
		playlists.POST("/:id/comments", commentController.CreateComment)
		playlists.GET("/:id/comments/:commentId", commentController.GetComment)
		playlists.PUT("/:id/comments/:commentId", commentController.UpdateComment)
		playlists.DELETE("/:id/comments/:commentId", commentController.DeleteComment)
	}

	protected.GET("/users/:userId/playlists", playlistController.ListUserPlaylists)
	protected.GET("/categories", playlistController.ListCategories)
}

package router

import (
	"clanboard/internal/forum"
	"clanboard/internal/handlers"
	"clanboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the forum engine and notification endpoints.
func RegisterRoutes(r *gin.Engine, store forum.Store, notifier forum.Notifier, ready bool) {
	forumHandler := handlers.NewForumHandler(store, notifier, ready)
	notificationHandler := handlers.NewNotificationHandler()

	// Public routes: browsing never requires a user.
	api := r.Group("/api/forum")
	{
		api.GET("", forumHandler.State)          // list view, filters via query string
		api.GET("/p/:pid", forumHandler.Detail)  // deep link into detail
		api.POST("/view/back", forumHandler.Back)
	}

	// Routes that act on behalf of the signed-in user.
	authorized := r.Group("/api/forum")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/view/create", forumHandler.ShowCreate)
		authorized.POST("/view/cancel", forumHandler.CancelForm)
		authorized.POST("/submit", forumHandler.Submit)
		authorized.POST("/p/:pid/edit", forumHandler.ShowEdit)

		authorized.POST("/p/:pid/delete", forumHandler.RequestDelete)
		authorized.POST("/p/:pid/delete/confirm", forumHandler.ConfirmDelete)
		authorized.POST("/p/:pid/delete/cancel", forumHandler.CancelDelete)

		authorized.POST("/vote/:type/:id/:dir", forumHandler.Vote)

		authorized.POST("/comments", forumHandler.CreateComment)
		authorized.POST("/comments/:id/edit", forumHandler.EditComment)
		authorized.DELETE("/comments/:cid", forumHandler.DeleteComment)
	}

	// Moderator-only toggles.
	moderation := r.Group("/api/forum")
	moderation.Use(middleware.AuthRequired(), middleware.ModeratorRequired())
	{
		moderation.POST("/p/:pid/pin", forumHandler.TogglePin)
		moderation.POST("/p/:pid/lock", forumHandler.ToggleLock)
	}

	notifications := r.Group("/api/notifications")
	notifications.Use(middleware.AuthRequired())
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.Read)
		notifications.POST("/read-all", notificationHandler.ReadAll)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}
}

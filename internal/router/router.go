package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scriptorium/internal/handlers"
	"scriptorium/internal/middleware"
	"scriptorium/internal/services"
)

func RegisterRoutes(r *gin.Engine, database *gorm.DB, auth *services.AuthService) {
	// Handlers
	authHandler := handlers.NewAuthHandler(auth)
	postHandler := handlers.NewPostHandler(database)
	commentHandler := handlers.NewCommentHandler(database)
	templateHandler := handlers.NewTemplateHandler(database)
	voteHandler := handlers.NewVoteHandler(database)
	tagHandler := handlers.NewTagHandler(database)
	adminHandler := handlers.NewAdminHandler(database)

	api := r.Group("/api")
	api.Use(middleware.LoadUser(auth))

	// Auth
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Public reads
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:pid", postHandler.Detail)
	api.GET("/posts/:pid/comments", commentHandler.List)
	api.GET("/templates", templateHandler.List)
	api.GET("/templates/:tid", templateHandler.Detail)
	api.GET("/tags", tagHandler.List)

	// Authenticated writes
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(auth))
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:pid", postHandler.Update)
		authorized.DELETE("/posts/:pid", postHandler.Delete)

		authorized.POST("/posts/:pid/comments", commentHandler.Create)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)

		authorized.POST("/templates", templateHandler.Create)
		authorized.PUT("/templates/:tid", templateHandler.Update)
		authorized.DELETE("/templates/:tid", templateHandler.Delete)
		authorized.POST("/templates/:tid/fork", templateHandler.Fork)

		authorized.POST("/vote/:type/:id", voteHandler.Vote)
		authorized.POST("/report/:type/:id", voteHandler.Report)
	}

	// Moderation
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(auth), middleware.AdminRequired())
	{
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/hide/:type/:id", adminHandler.Hide)
		admin.POST("/unhide/:type/:id", adminHandler.Unhide)
	}
}

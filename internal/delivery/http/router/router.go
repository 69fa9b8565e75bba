// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/crucial-sub/sub-board/internal/delivery/http/middleware"
	"github.com/crucial-sub/sub-board/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	UserHandler         *handler.UserHandler
	NotificationHandler *handler.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	postHandler         *handler.PostHandler
	commentHandler      *handler.CommentHandler
	userHandler         *handler.UserHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		postHandler:         params.PostHandler,
		commentHandler:      params.CommentHandler,
		userHandler:         params.UserHandler,
		notificationHandler: params.NotificationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.GET("/profile", r.authHandler.GetProfile, r.authMiddleware.Authenticate)
	}

	// Board routes; reads are public, writes require authentication
	postGroup := e.Group("/posts")
	{
		postGroup.GET("", r.postHandler.List)
		postGroup.GET("/:id", r.postHandler.Get)
		postGroup.POST("", r.postHandler.Create, r.authMiddleware.Authenticate)
		postGroup.PATCH("/:id", r.postHandler.Update, r.authMiddleware.Authenticate)
		postGroup.DELETE("/:id", r.postHandler.Delete, r.authMiddleware.Authenticate)
	}

	e.GET("/tags", r.postHandler.ListTags)

	commentGroup := e.Group("/comments")
	commentGroup.Use(r.authMiddleware.Authenticate)
	{
		commentGroup.POST("", r.commentHandler.Create)
		commentGroup.PATCH("/:id", r.commentHandler.Update)
		commentGroup.DELETE("/:id", r.commentHandler.Delete)
	}

	// Profile routes beyond the auth lifecycle
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.PATCH("/me", r.userHandler.UpdateProfile)
		userGroup.GET("/me/stats", r.userHandler.GetStats)
	}

	// Live notification stream
	e.GET("/notifications/stream", r.notificationHandler.Stream, r.authMiddleware.Authenticate)
}

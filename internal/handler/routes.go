package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ledgerly/ledgerly-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, userHandler *UserHandler, subCategoryHandler *SubCategoryHandler, transactionHandler *TransactionHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Authenticated auth routes
	authMe := api.Group("/auth")
	authMe.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	authMe.GET("/me", authHandler.Me)

	// User routes (protected)
	user := api.Group("/user")
	user.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	user.GET("", userHandler.GetProfile)
	user.PATCH("", userHandler.UpdateProfile)

	// Sub-category routes (protected)
	subCategories := api.Group("/sub-categories")
	subCategories.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	subCategories.GET("", subCategoryHandler.ListSubCategories)
	subCategories.POST("", subCategoryHandler.CreateSubCategory)
	subCategories.PUT("/:id", subCategoryHandler.UpdateSubCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/menu", handler.GetMenu)
		v1.GET("/search", handler.SearchProducts)

		collections := v1.Group("/collections")
		{
			collections.GET("/:handle", handler.GetCollection)
			collections.POST("/warm", handler.WarmCollections)
		}

		products := v1.Group("/products")
		{
			products.GET("/:handle", handler.GetProduct)
			products.POST("/batch", handler.BatchProducts)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.POST("", handler.ResumeCart)
			cart.POST("/items", handler.AddCartItem)
			cart.PUT("/items", handler.UpdateCartItems)
			cart.DELETE("/items/:lineItemID", handler.RemoveCartItem)
			cart.PUT("/attributes", handler.UpdateCartAttributes)
		}
	}

	return router
}

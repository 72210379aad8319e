package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"
)

// SetupRoutes настраивает все маршруты сервиса с использованием Gin
func SetupRoutes(catalogHandler *CatalogHandler, authHandler *AuthHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("catalogo"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalogo",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Публичный эндпоинт аутентификации
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Categories endpoints - требуют аутентификации
	categories := router.Group("/api/category")
	categories.Use(authMiddleware.Authenticate())
	{
		categories.GET("", catalogHandler.GetAllCategories)
		categories.GET("/:id", catalogHandler.GetCategory)
		categories.POST("", catalogHandler.CreateCategory)
		categories.PUT("/:id", catalogHandler.UpdateCategory)
		categories.DELETE("/:id", catalogHandler.DeleteCategory) // Каскадом удаляет товары категории
	}

	// Products endpoints - требуют аутентификации
	products := router.Group("/api/product")
	products.Use(authMiddleware.Authenticate())
	{
		products.GET("", catalogHandler.GetAllProducts)
		products.GET("/paged", catalogHandler.GetPagedProducts)
		products.GET("/:id", catalogHandler.GetProduct)
		products.POST("", catalogHandler.CreateProduct)
		products.PUT("/:id", catalogHandler.UpdateProduct) // Kafka событие при изменении цены
		products.DELETE("/:id", catalogHandler.DeleteProduct)
	}

	// Report endpoint
	summary := router.Group("/api/summary")
	summary.Use(authMiddleware.Authenticate())
	{
		summary.GET("", catalogHandler.GetSummary)
	}

	return router
}

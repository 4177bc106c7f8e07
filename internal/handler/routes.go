package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册全部业务路由
func RegisterRoutes(
	router gin.IRouter,
	contacts *ContactHandler,
	qr *QRHandler,
	stats *AnalyticsHandler,
	health *HealthHandler,
) {
	router.GET("/health", health.HealthCheck)

	api := router.Group("/api")
	api.GET("/health", health.HealthCheck)

	vcards := api.Group("/vcard")
	{
		vcards.GET("", contacts.List)
		vcards.POST("/generate", contacts.Generate)
		vcards.GET("/:id", contacts.Get)
		vcards.GET("/:id/download", contacts.Download)
		vcards.PUT("/:id", contacts.Update)
		vcards.DELETE("/:id", contacts.Delete)
	}

	codes := api.Group("/qr")
	{
		codes.POST("/generate", qr.Generate)
		codes.GET("/:id/scan", qr.Scan)
		codes.GET("/:id/:format", qr.Download)
		codes.GET("/:id/:format/data", qr.DataURL)
	}

	events := api.Group("/analytics")
	{
		events.GET("", stats.Global)
		events.POST("/track", stats.TrackGlobal)
		events.POST("/track/:vcardId", stats.Track)
		events.GET("/export/:vcardId", stats.Export)
		events.GET("/:vcardId", stats.Get)
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/enerlytic/solarplan-go/internal/api/handlers"
)

// Handlers bundles the endpoint handlers wired in main.
type Handlers struct {
	Analysis *handlers.AnalysisHandler
	Pricing  *handlers.PricingHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes registers all HTTP routes.
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/live", h.Health.LivenessCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analysis.Analyze)
		v1.GET("/analyses", h.Analysis.ListAnalyses)
		v1.GET("/locations", h.Analysis.GetLocations)

		weather := v1.Group("/weather")
		{
			weather.GET("/options", h.Analysis.GetWeatherOptions)
		}

		price := v1.Group("/electricity-price")
		{
			price.GET("", h.Pricing.GetPrice)
			price.POST("/update-live", h.Pricing.UpdateLive)
			price.POST("/update-manual", h.Pricing.UpdateManual)
		}
	}
}

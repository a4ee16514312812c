package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studyforge/studyforge-backend/internal/handlers"
)

type RouterConfig struct {
	PlanHandler   *handlers.PlanHandler
	HealthHandler *handlers.HealthHandler
	// Comma-separated allowed origins; "*" (the default) allows any.
	CORSAllowOrigins string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("studyforge-backend"))
	router.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))

	api := router.Group("/api")
	{
		api.GET("/health", cfg.HealthHandler.Health)
		api.POST("/generate-plan", cfg.PlanHandler.GeneratePlan)
		api.GET("/plans", cfg.PlanHandler.ListPlans)
		api.GET("/plan/:id", cfg.PlanHandler.GetPlan)
		api.GET("/plan/:id/pdf", cfg.PlanHandler.GetPlanPDF)
		api.GET("/plan/:id/cover", cfg.PlanHandler.GetPlanCover)
	}

	return router
}

func corsConfig(allowOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
	}
	allowOrigins = strings.TrimSpace(allowOrigins)
	if allowOrigins == "" || allowOrigins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range strings.Split(allowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}

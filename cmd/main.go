package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/handlers"
	"github.com/studyforge/studyforge-backend/internal/logger"
	"github.com/studyforge/studyforge-backend/internal/modules/plan"
	"github.com/studyforge/studyforge-backend/internal/observability"
	"github.com/studyforge/studyforge-backend/internal/server"
	"github.com/studyforge/studyforge-backend/internal/services"
	"github.com/studyforge/studyforge-backend/internal/store"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "studyforge-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Store
	storeBackend := utils.GetEnv("PLAN_STORE_BACKEND", "memory", log)
	planStore, err := store.New(log)
	if err != nil {
		log.Error("Could not init plan store", "error", err, "backend", storeBackend)
		os.Exit(1)
	}

	// Model client + pipeline
	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	pipeline := plan.New(log, aiClient)

	// Services
	planService := services.NewPlanService(log, planStore, pipeline)

	// Handlers
	planHandler := handlers.NewPlanHandler(log, planService)
	healthHandler := handlers.NewHealthHandler(storeBackend)

	// Router
	router := server.NewRouter(server.RouterConfig{
		PlanHandler:      planHandler,
		HealthHandler:    healthHandler,
		CORSAllowOrigins: utils.GetEnv("CORS_ALLOW_ORIGINS", "*", log),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

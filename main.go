package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/database"
	"github.com/jasseurchibani/student-program-recommender/internal/handlers"
	"github.com/jasseurchibani/student-program-recommender/internal/logger"
	"github.com/jasseurchibani/student-program-recommender/internal/repository"
	"github.com/jasseurchibani/student-program-recommender/internal/routes"
	"github.com/jasseurchibani/student-program-recommender/internal/services"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	if err := config.LoadConfig(); err != nil {
		log.Println("Config load warning:", err)
		log.Println("Using environment variables only")
	}
	cfg := config.GlobalConfig

	zlog, err := logger.New(cfg.Env == "production", os.Getenv("DEBUG") != "")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// =========================
	// CONNECT DATABASE (SAFE)
	// =========================
	// The feedback sink degrades to a local CSV log when no database is
	// reachable; recommendations do not depend on it.
	var feedbackRepo repository.FeedbackRepository
	if err := database.ConnectDB(); err != nil {
		zlog.Warn("database connection failed, feedback falls back to CSV log",
			zap.String("path", cfg.FeedbackLog),
			zap.Error(err))
		feedbackRepo = repository.NewCSVFeedbackRepository(cfg.FeedbackLog)
	} else {
		if err := database.AutoMigrate(); err != nil {
			zlog.Fatal("database migration failed", zap.Error(err))
		}
		zlog.Info("database connected")
		feedbackRepo = repository.NewFeedbackRepository(database.DB)
	}

	// =========================
	// LOAD ARTIFACTS
	// =========================
	store := artifacts.NewStore(cfg, zlog)
	if err := store.Load(); err != nil {
		zlog.Fatal("failed to load recommendation artifacts", zap.Error(err))
	}

	// =========================
	// INIT SERVICES
	// =========================
	contentService := services.NewContentBasedService(store, cfg)
	collaborativeService := services.NewCollaborativeService(store, contentService, cfg)
	hybridService := services.NewHybridService(store, contentService, collaborativeService, cfg)
	engine := services.NewRecommendationEngine(store, contentService, collaborativeService, hybridService, cfg, zlog)

	// =========================
	// INIT HANDLERS
	// =========================
	recommendationHandler := handlers.NewRecommendationHandler(engine, cfg, zlog)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, zlog)
	programHandler := handlers.NewProgramHandler(store)

	// =========================
	// ROUTES
	// =========================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRoutes(
		recommendationHandler,
		feedbackHandler,
		programHandler,
		store,
		cfg,
		zlog,
	)

	// =========================
	// SERVER CONFIG
	// =========================
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.ServerPort
	}
	bindAddr := "0.0.0.0:" + port

	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		zlog.Info("server started", zap.String("addr", bindAddr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Error("server error", zap.Error(err))
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}

	zlog.Info("server exited properly")
}

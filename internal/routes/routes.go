package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/handlers"
	"github.com/jasseurchibani/student-program-recommender/internal/middleware"
)

func SetupRoutes(
	recommendationHandler *handlers.RecommendationHandler,
	feedbackHandler *handlers.FeedbackHandler,
	programHandler *handlers.ProgramHandler,
	store *artifacts.Store,
	cfg *config.Config,
	log *zap.Logger,
) *gin.Engine {

	router := gin.New()

	// =========================
	// GLOBAL MIDDLEWARE
	// =========================
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	// =========================
	// CORS CONFIG (DEV / PROD)
	// =========================
	frontendURL := os.Getenv("CORS_ORIGIN")

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Env == "production" {
		if frontendURL == "" {
			log.Fatal("CORS_ORIGIN environment variable is not set in production")
		}
		corsConfig.AllowOrigins = []string{frontendURL}
		log.Info("CORS configured for production", zap.String("origin", frontendURL))
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
		if frontendURL != "" {
			allowedOrigins = append(allowedOrigins, frontendURL)
		}

		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			// Allow local network IPs (192.168.x.x, 10.x.x.x)
			if strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.") {
				return true
			}
			return false
		}
		log.Info("CORS configured for development", zap.Int("allowed_origins", len(allowedOrigins)))
	}

	router.Use(cors.New(corsConfig))
	router.Use(middleware.SecurityHeaders())

	// =========================
	// API ROUTES
	// =========================
	router.POST("/recommend", recommendationHandler.Recommend)
	router.POST("/feedback", feedbackHandler.SubmitFeedback)
	router.GET("/programs", programHandler.GetAllPrograms)

	// =========================
	// STATIC UI (OPTIONAL)
	// =========================
	if info, err := os.Stat(cfg.UIDir); err == nil && info.IsDir() {
		router.Static("/ui", cfg.UIDir)
	}

	// =========================
	// HEALTH & ROOT
	// =========================
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":             "healthy",
			"models_loaded":      store.Loaded(),
			"tfidf_available":    store.TFIDFAvailable(),
			"cf_model_available": store.CFAvailable(),
			"programs_loaded":    store.CatalogAvailable(),
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Student Program Recommendation API",
			"version": "1.0.0",
		})
	})

	return router
}

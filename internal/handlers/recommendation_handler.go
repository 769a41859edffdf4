package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
	"github.com/jasseurchibani/student-program-recommender/internal/services"
)

type RecommendationHandler struct {
	engine services.RecommendationEngine
	config *config.Config
	log    *zap.Logger
}

func NewRecommendationHandler(engine services.RecommendationEngine, cfg *config.Config, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: engine,
		config: cfg,
		log:    log,
	}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	strategy, err := services.ParseStrategy(c.DefaultQuery("approach", "hybrid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Unknown approach",
			"error":   err.Error(),
		})
		return
	}

	k, err := strconv.Atoi(c.DefaultQuery("k", strconv.Itoa(h.config.DefaultK)))
	if err != nil || k <= 0 {
		k = h.config.DefaultK
	}
	if k > 20 {
		k = 20 // Safety limit
	}

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid user profile",
			"error":   err.Error(),
		})
		return
	}

	recommendations, err := h.engine.Recommend(profile, strategy, k)
	if err != nil {
		h.log.Error("recommendation failed",
			zap.String("strategy", strategy.String()),
			zap.Error(err))

		// Internal failures stay generic; no engine state leaks to callers.
		status := http.StatusInternalServerError
		message := "Error generating recommendations"
		if errors.Is(err, services.ErrAssetsNotLoaded) {
			status = http.StatusServiceUnavailable
			message = "Recommendation models are not loaded"
		}
		c.JSON(status, gin.H{
			"status":  "error",
			"message": message,
		})
		return
	}

	if recommendations == nil {
		recommendations = []models.Recommendation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Recommendations generated",
		"data": gin.H{
			"user_id":         profile.UserID,
			"approach":        strategy.String(),
			"recommendations": recommendations,
			"count":           len(recommendations),
		},
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/models"
	"github.com/jasseurchibani/student-program-recommender/internal/repository"
)

type FeedbackHandler struct {
	feedbackRepo repository.FeedbackRepository
	log          *zap.Logger
}

func NewFeedbackHandler(feedbackRepo repository.FeedbackRepository, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		log:          log,
	}
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid feedback payload",
			"error":   err.Error(),
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	feedback := &models.Feedback{
		UserID:       req.UserID,
		ProgramID:    req.ProgramID,
		FeedbackType: req.FeedbackType,
		SessionID:    sessionID,
		CreatedAt:    time.Now(),
	}

	if err := h.feedbackRepo.SaveFeedback(feedback); err != nil {
		h.log.Error("failed to record feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Error recording feedback",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Feedback recorded successfully",
		"data": gin.H{
			"feedback_type": feedback.FeedbackType,
			"program_id":    feedback.ProgramID,
			"session_id":    feedback.SessionID,
		},
	})
}

package repository

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

// FeedbackRepository is a one-way append sink for user feedback events.
type FeedbackRepository interface {
	SaveFeedback(feedback *models.Feedback) error
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) SaveFeedback(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// csvFeedbackRepo appends to a local CSV log. Used when no database is
// available, keeping the same layout the training pipeline already consumes.
type csvFeedbackRepo struct {
	mu   sync.Mutex
	path string
}

func NewCSVFeedbackRepository(path string) FeedbackRepository {
	return &csvFeedbackRepo{path: path}
}

func (r *csvFeedbackRepo) SaveFeedback(feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	_, statErr := os.Stat(r.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if writeHeader {
		if err := writer.Write([]string{"timestamp", "user_id", "program_id", "feedback_type", "session_id"}); err != nil {
			return err
		}
	}

	userID := feedback.UserID
	if userID == "" {
		userID = "anonymous"
	}

	createdAt := feedback.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if err := writer.Write([]string{
		createdAt.Format(time.RFC3339),
		userID,
		feedback.ProgramID,
		feedback.FeedbackType,
		feedback.SessionID,
	}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

package models

import (
	"time"
)

// Feedback is a one-way append record. The engine never reads it back.
type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(100);index" json:"user_id"`
	ProgramID    string    `gorm:"type:varchar(100);not null;index" json:"program_id"`
	FeedbackType string    `gorm:"type:varchar(20);not null" json:"feedback_type"`
	SessionID    string    `gorm:"type:varchar(100)" json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type FeedbackRequest struct {
	UserID       string `json:"user_id"`
	ProgramID    string `json:"program_id" binding:"required"`
	FeedbackType string `json:"feedback_type" binding:"required,oneof=clicked accepted rejected"`
	SessionID    string `json:"session_id"`
}

package models

import (
	"time"
)

type Answer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubmissionID uint      `json:"submission_id" gorm:"not null"`
	QuestionID   uint      `json:"question_id" gorm:"not null"`
	OptionID     uint      `json:"option_id" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Submission *Submission `json:"submission,omitempty"`
	Question   *Question   `json:"question,omitempty"`
	Option     *Option     `json:"option,omitempty"`
}

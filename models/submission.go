package models

import (
	"time"
)

type Submission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ContestID uint      `json:"contest_id" gorm:"not null"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Score     *int      `json:"score"` // nil until graded, written exactly once
	TotalTime int       `json:"total_time" gorm:"not null;default:0"` // seconds
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Contest *Contest `json:"contest,omitempty"`
	User    *User    `json:"user,omitempty"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:SubmissionID"`
}

// IsGraded reports whether the submission has reached its terminal state.
func (s *Submission) IsGraded() bool {
	return s.Score != nil
}

package models

import (
	"time"
)

type Contest struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	IsFixTime   bool       `json:"is_fix_time" gorm:"not null;default:false"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	AuthorID    uint       `json:"author_id" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Author      *User        `json:"author,omitempty"`
	Questions   []Question   `json:"questions,omitempty" gorm:"foreignKey:ContestID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:ContestID"`
}

package services_test

import (
	"testing"
	"time"

	"contesthub/models"
	"contesthub/services"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.Question{},
		&models.Option{},
		&models.Submission{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func fixedClock(at time.Time) services.Clock {
	return func() time.Time { return at }
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username: username,
		FullName: "Test " + username,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestContest(t *testing.T, db *gorm.DB, authorID uint, start, end *time.Time) models.Contest {
	t.Helper()

	contest := models.Contest{
		Name:        "Spring Round",
		Description: "Test contest",
		IsFixTime:   start != nil || end != nil,
		StartTime:   start,
		EndTime:     end,
		AuthorID:    authorID,
	}
	if err := db.Create(&contest).Error; err != nil {
		t.Fatalf("create contest: %v", err)
	}
	return contest
}

// createTestQuestion stores a question with two options; the first one
// is the correct one.
func createTestQuestion(t *testing.T, db *gorm.DB, contestID uint, number int) models.Question {
	t.Helper()

	question := models.Question{
		ContestID: contestID,
		Number:    number,
		Content:   "What is the answer?",
		Options: []models.Option{
			{Number: 1, Content: "Right", IsCorrect: true},
			{Number: 2, Content: "Wrong", IsCorrect: false},
		},
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

func timePtr(at time.Time) *time.Time {
	return &at
}

package services

import (
	"errors"
	"sort"
	"time"

	"contesthub/models"

	"gorm.io/gorm"
)

// StatisticsService derives read-only rollups from stored submissions.
// It never mutates anything.
type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

type ScoreBucket struct {
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
}

type SharedStatistics struct {
	TotalSubmissions          int           `json:"total_submissions"`
	TotalCompletedSubmissions int           `json:"total_completed_submissions"`
	CompletionPercentage      float64       `json:"completion_percentage"`
	AverageScore              float64       `json:"average_score"`
	ScoreDistribution         []ScoreBucket `json:"score_distribution"`
}

// UserContestRecord summarizes one submission of a user.
type UserContestRecord struct {
	SubmissionID uint           `json:"submission_id"`
	Contest      models.Contest `json:"contest"`
	Score        *int           `json:"score"`
	IsCompleted  bool           `json:"is_completed"`
	TotalTime    int            `json:"total_time"`
	StartTime    time.Time      `json:"start_time"`
}

// CalculateSharedStatistics rolls up a set of submissions. Graded means
// a non-nil score. All percentages guard against division by zero.
func CalculateSharedStatistics(submissions []models.Submission) SharedStatistics {
	stats := SharedStatistics{
		TotalSubmissions:  len(submissions),
		ScoreDistribution: []ScoreBucket{},
	}

	scoreCounts := make(map[int]int)
	scoreSum := 0
	for _, s := range submissions {
		if !s.IsGraded() {
			continue
		}
		stats.TotalCompletedSubmissions++
		scoreCounts[*s.Score]++
		scoreSum += *s.Score
	}

	if stats.TotalSubmissions > 0 {
		stats.CompletionPercentage = float64(stats.TotalCompletedSubmissions) / float64(stats.TotalSubmissions) * 100
	}
	if stats.TotalCompletedSubmissions > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.TotalCompletedSubmissions)
	}

	scores := make([]int, 0, len(scoreCounts))
	for score := range scoreCounts {
		scores = append(scores, score)
	}
	sort.Ints(scores)
	for _, score := range scores {
		stats.ScoreDistribution = append(stats.ScoreDistribution, ScoreBucket{
			Score:      score,
			Percentage: float64(scoreCounts[score]) / float64(stats.TotalCompletedSubmissions) * 100,
		})
	}

	return stats
}

// GetOverviewStatistics rolls up every submission in the system.
func (s *StatisticsService) GetOverviewStatistics() (*SharedStatistics, error) {
	var submissions []models.Submission
	if err := s.db.Find(&submissions).Error; err != nil {
		return nil, err
	}
	stats := CalculateSharedStatistics(submissions)
	return &stats, nil
}

// GetContestStatistics rolls up the submissions of a single contest.
func (s *StatisticsService) GetContestStatistics(contestID uint) (*SharedStatistics, error) {
	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	var submissions []models.Submission
	if err := s.db.Where("contest_id = ?", contestID).Find(&submissions).Error; err != nil {
		return nil, err
	}
	stats := CalculateSharedStatistics(submissions)
	return &stats, nil
}

// GetContestsByUser returns one record per submission the user made.
func (s *StatisticsService) GetContestsByUser(userID uint) ([]UserContestRecord, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var submissions []models.Submission
	if err := s.db.Where("user_id = ?", userID).Preload("Contest").Find(&submissions).Error; err != nil {
		return nil, err
	}

	records := make([]UserContestRecord, 0, len(submissions))
	for _, sub := range submissions {
		record := UserContestRecord{
			SubmissionID: sub.ID,
			Score:        sub.Score,
			IsCompleted:  sub.IsGraded(),
			TotalTime:    sub.TotalTime,
			StartTime:    sub.CreatedAt,
		}
		if sub.Contest != nil {
			record.Contest = *sub.Contest
		}
		records = append(records, record)
	}
	return records, nil
}

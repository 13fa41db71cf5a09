package services

import (
	"errors"
	"time"

	"contesthub/models"

	"gorm.io/gorm"
)

type SubmissionService struct {
	db  *gorm.DB
	now Clock
}

func NewSubmissionService(db *gorm.DB, clock Clock) *SubmissionService {
	if clock == nil {
		clock = time.Now
	}
	return &SubmissionService{db: db, now: clock}
}

type SubmissionAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

type GradeSubmissionRequest struct {
	Answers   []SubmissionAnswerRequest `json:"answers" binding:"required"`
	TotalTime int                       `json:"total_time"`
}

// SubmissionContest is the contest projection returned with a graded
// submission. It withholds the author linkage.
type SubmissionContest struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	IsFixTime   bool              `json:"is_fix_time"`
	StartTime   *time.Time        `json:"start_time"`
	EndTime     *time.Time        `json:"end_time"`
	CreatedAt   time.Time         `json:"created_at"`
	Questions   []models.Question `json:"questions"`
}

type AnswerView struct {
	ID         uint `json:"id"`
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// GradedSubmissionView is the terminal projection of a submission: the
// computed score joined with its answers, user and contest.
type GradedSubmissionView struct {
	ID        uint              `json:"id"`
	Score     int               `json:"score"`
	TotalTime int               `json:"total_time"`
	CreatedAt time.Time         `json:"created_at"`
	User      models.User       `json:"user"`
	Contest   SubmissionContest `json:"contest"`
	Answers   []AnswerView      `json:"answers"`
}

// UngradedSubmissionView carries no question or option data for its
// contest, so answers cannot leak before grading completes.
type UngradedSubmissionView struct {
	ID        uint        `json:"id"`
	TotalTime int         `json:"total_time"`
	CreatedAt time.Time   `json:"created_at"`
	User      models.User `json:"user"`
	Contest   struct {
		ID          uint       `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		IsFixTime   bool       `json:"is_fix_time"`
		StartTime   *time.Time `json:"start_time"`
		EndTime     *time.Time `json:"end_time"`
	} `json:"contest"`
}

// SubmissionResult selects between the two projections on submission
// state; exactly one of the fields is set.
type SubmissionResult struct {
	Graded   *GradedSubmissionView   `json:"graded,omitempty"`
	Ungraded *UngradedSubmissionView `json:"ungraded,omitempty"`
}

// StartSubmission opens an ungraded submission for a user on a contest.
// A fixed-time contest only admits submissions inside its window.
func (s *SubmissionService) StartSubmission(contestID, userID uint) (*models.Submission, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	if err := checkContestWindow(&contest, s.now()); err != nil {
		return nil, err
	}

	submission := models.Submission{
		ContestID: contestID,
		UserID:    userID,
		Score:     nil,
		TotalTime: 0,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GradeSubmission judges a submission exactly once. The window re-check,
// answer insertion and score write share one transaction so concurrent
// contest mutations cannot observe a half-graded submission.
func (s *SubmissionService) GradeSubmission(submissionID uint, req *GradeSubmissionRequest) (*GradedSubmissionView, error) {
	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if submission.IsGraded() {
		return nil, ErrSubmissionGraded
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var contest models.Contest
	if err := tx.First(&contest, submission.ContestID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	// Grading must land inside the same window that admitted the start.
	if err := checkContestWindow(&contest, s.now()); err != nil {
		tx.Rollback()
		return nil, err
	}

	optionIDs := make([]uint, 0, len(req.Answers))
	for _, a := range req.Answers {
		optionIDs = append(optionIDs, a.OptionID)
	}

	correct := make(map[uint]bool, len(optionIDs))
	if len(optionIDs) > 0 {
		var options []models.Option
		if err := tx.Where("id IN ?", optionIDs).Find(&options).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		for _, o := range options {
			correct[o.ID] = o.IsCorrect
		}
	}

	score := 0
	for _, a := range req.Answers {
		isCorrect, ok := correct[a.OptionID]
		if !ok {
			tx.Rollback()
			return nil, ErrOptionNotFound
		}
		if isCorrect {
			score++
		}
	}

	for _, a := range req.Answers {
		answer := models.Answer{
			SubmissionID: submission.ID,
			QuestionID:   a.QuestionID,
			OptionID:     a.OptionID,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"score":      score,
		"total_time": req.TotalTime,
	}
	if err := tx.Model(&models.Submission{}).Where("id = ?", submission.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.getGradedView(submission.ID)
}

// GetSubmissionResult returns the graded projection once a score exists
// and the question-free projection before that.
func (s *SubmissionService) GetSubmissionResult(submissionID uint) (*SubmissionResult, error) {
	var submission models.Submission
	err := s.db.Preload("User").Preload("Contest").First(&submission, submissionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if !submission.IsGraded() {
		view := &UngradedSubmissionView{
			ID:        submission.ID,
			TotalTime: submission.TotalTime,
			CreatedAt: submission.CreatedAt,
		}
		if submission.User != nil {
			view.User = *submission.User
		}
		view.Contest.ID = submission.Contest.ID
		view.Contest.Name = submission.Contest.Name
		view.Contest.Description = submission.Contest.Description
		view.Contest.IsFixTime = submission.Contest.IsFixTime
		view.Contest.StartTime = submission.Contest.StartTime
		view.Contest.EndTime = submission.Contest.EndTime
		return &SubmissionResult{Ungraded: view}, nil
	}

	graded, err := s.getGradedView(submissionID)
	if err != nil {
		return nil, err
	}
	return &SubmissionResult{Graded: graded}, nil
}

func (s *SubmissionService) FindAllByUser(userID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.Where("user_id = ?", userID).Preload("Contest").Find(&submissions).Error
	return submissions, err
}

func (s *SubmissionService) FindAllByUserAndContest(userID, contestID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.Where("user_id = ? AND contest_id = ?", userID, contestID).Find(&submissions).Error
	return submissions, err
}

func (s *SubmissionService) FindAllByContest(contestID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.Where("contest_id = ?", contestID).Find(&submissions).Error
	return submissions, err
}

// GetSubmissionForAdmin returns the raw submission with every relation
// loaded, correct flags included.
func (s *SubmissionService) GetSubmissionForAdmin(submissionID uint) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.Preload("User").
		Preload("Contest").
		Preload("Contest.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.number")
		}).
		Preload("Contest.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.number")
		}).
		Preload("Answers").
		First(&submission, submissionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionService) getGradedView(submissionID uint) (*GradedSubmissionView, error) {
	submission, err := s.GetSubmissionForAdmin(submissionID)
	if err != nil {
		return nil, err
	}
	if !submission.IsGraded() {
		return nil, errors.New("submission is not graded")
	}

	view := &GradedSubmissionView{
		ID:        submission.ID,
		Score:     *submission.Score,
		TotalTime: submission.TotalTime,
		CreatedAt: submission.CreatedAt,
		Contest: SubmissionContest{
			ID:          submission.Contest.ID,
			Name:        submission.Contest.Name,
			Description: submission.Contest.Description,
			IsFixTime:   submission.Contest.IsFixTime,
			StartTime:   submission.Contest.StartTime,
			EndTime:     submission.Contest.EndTime,
			CreatedAt:   submission.Contest.CreatedAt,
			Questions:   submission.Contest.Questions,
		},
		Answers: make([]AnswerView, 0, len(submission.Answers)),
	}
	if submission.User != nil {
		view.User = *submission.User
	}
	for _, a := range submission.Answers {
		view.Answers = append(view.Answers, AnswerView{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			OptionID:   a.OptionID,
		})
	}
	return view, nil
}

// checkContestWindow gates state-changing submission operations on a
// fixed-time contest's [startTime, endTime] interval.
func checkContestWindow(contest *models.Contest, now time.Time) error {
	if !contest.IsFixTime {
		return nil
	}
	if contest.StartTime != nil && now.Before(*contest.StartTime) {
		return ErrContestNotStarted
	}
	if contest.EndTime != nil && now.After(*contest.EndTime) {
		return ErrContestEnded
	}
	return nil
}

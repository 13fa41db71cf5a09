package services

import (
	"errors"
	"time"

	"contesthub/models"

	"gorm.io/gorm"
)

// Clock supplies the current time so that window checks stay testable.
type Clock func() time.Time

type ContestService struct {
	db  *gorm.DB
	now Clock
}

func NewContestService(db *gorm.DB, clock Clock) *ContestService {
	if clock == nil {
		clock = time.Now
	}
	return &ContestService{db: db, now: clock}
}

type ContestRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description" binding:"max=2000"`
	IsFixTime   bool       `json:"is_fix_time"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type QuestionUpsertRequest struct {
	ID      uint                  `json:"id"`
	Number  int                   `json:"number" binding:"required"`
	Content string                `json:"content" binding:"required,max=255"`
	Options []OptionUpsertRequest `json:"options" binding:"required"`
}

type OptionUpsertRequest struct {
	ID        uint   `json:"id"`
	Number    int    `json:"number" binding:"required"`
	Content   string `json:"content" binding:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

type ContestFilter struct {
	Query     string `form:"query"`
	IsFixTime *bool  `form:"is_fix_time"`
}

// ContestView is the participant-facing projection of a contest. Its
// options never carry the IsCorrect flag.
type ContestView struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsFixTime   bool           `json:"is_fix_time"`
	StartTime   *time.Time     `json:"start_time"`
	EndTime     *time.Time     `json:"end_time"`
	Author      models.User    `json:"author"`
	Questions   []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID      uint         `json:"id"`
	Number  int          `json:"number"`
	Content string       `json:"content"`
	Options []OptionView `json:"options"`
}

type OptionView struct {
	ID      uint   `json:"id"`
	Number  int    `json:"number"`
	Content string `json:"content"`
	// IsCorrect is intentionally omitted from the participant view
}

func (s *ContestService) CreateContest(req *ContestRequest, authorID uint) (*models.Contest, error) {
	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := validateContestTimes(req); err != nil {
		return nil, err
	}

	contest := models.Contest{
		Name:        req.Name,
		Description: req.Description,
		IsFixTime:   req.IsFixTime,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AuthorID:    authorID,
	}

	if err := s.db.Create(&contest).Error; err != nil {
		return nil, err
	}

	contest.Author = &author
	return &contest, nil
}

func (s *ContestService) UpdateContest(contestID uint, req *ContestRequest) (*models.Contest, error) {
	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	if err := validateContestTimes(req); err != nil {
		return nil, err
	}

	// The author linkage is never mutated by an update.
	contest.Name = req.Name
	contest.Description = req.Description
	contest.IsFixTime = req.IsFixTime
	contest.StartTime = req.StartTime
	contest.EndTime = req.EndTime

	if err := s.db.Save(&contest).Error; err != nil {
		return nil, err
	}

	return s.GetContestForAdmin(contestID)
}

func (s *ContestService) DeleteContest(contestID uint) error {
	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContestNotFound
		}
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := deleteQuestionsCascade(tx, contestID, nil); err != nil {
		tx.Rollback()
		return err
	}

	var submissionIDs []uint
	if err := tx.Model(&models.Submission{}).Where("contest_id = ?", contestID).
		Pluck("id", &submissionIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(submissionIDs) > 0 {
		if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&models.Answer{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("contest_id = ?", contestID).Delete(&models.Submission{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Delete(&models.Contest{}, contestID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *ContestService) FindAll(filter *ContestFilter) ([]models.Contest, error) {
	query := s.db.Preload("Author")
	if filter.Query != "" {
		query = query.Where("name LIKE ?", "%"+filter.Query+"%")
	}
	if filter.IsFixTime != nil {
		query = query.Where("is_fix_time = ?", *filter.IsFixTime)
	}

	var contests []models.Contest
	err := query.Find(&contests).Error
	return contests, err
}

func (s *ContestService) GetContestForAdmin(contestID uint) (*models.Contest, error) {
	var contest models.Contest
	err := s.db.Preload("Author").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.number")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.number")
		}).
		First(&contest, contestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return &contest, nil
}

func (s *ContestService) GetContestForUser(contestID uint) (*ContestView, error) {
	contest, err := s.GetContestForAdmin(contestID)
	if err != nil {
		return nil, err
	}
	view := contestToView(contest)
	return &view, nil
}

// AddAndUpdateQuestions upserts a batch of questions against one contest.
// Incoming items with an id must already exist on the contest and are
// updated in place; items without an id are created. All validation runs
// before the first write.
func (s *ContestService) AddAndUpdateQuestions(contestID uint, questions []QuestionUpsertRequest) (*models.Contest, error) {
	contest, err := s.GetContestForAdmin(contestID)
	if err != nil {
		return nil, err
	}

	if err := validateQuestionBatch(questions); err != nil {
		return nil, err
	}

	hasNewQuestion := false
	for _, q := range questions {
		if q.ID == 0 {
			hasNewQuestion = true
		}
	}

	// New questions are frozen once a fixed-time contest has started;
	// updates to existing questions stay permitted.
	if hasNewQuestion && contest.IsFixTime && contest.StartTime != nil && !s.now().Before(*contest.StartTime) {
		return nil, ErrQuestionAfterStart
	}

	if err := validateQuestionUpsert(questions, contest.Questions); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, q := range questions {
		if q.ID == 0 {
			question := models.Question{
				ContestID: contestID,
				Number:    q.Number,
				Content:   q.Content,
			}
			for _, o := range q.Options {
				question.Options = append(question.Options, models.Option{
					Number:    o.Number,
					Content:   o.Content,
					IsCorrect: o.IsCorrect,
				})
			}
			if err := tx.Create(&question).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			continue
		}

		updates := map[string]interface{}{
			"number":  q.Number,
			"content": q.Content,
		}
		if err := tx.Model(&models.Question{}).Where("id = ?", q.ID).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, o := range q.Options {
			if o.ID == 0 {
				option := models.Option{
					QuestionID: q.ID,
					Number:     o.Number,
					Content:    o.Content,
					IsCorrect:  o.IsCorrect,
				}
				if err := tx.Create(&option).Error; err != nil {
					tx.Rollback()
					return nil, err
				}
				continue
			}

			optionUpdates := map[string]interface{}{
				"number":     o.Number,
				"content":    o.Content,
				"is_correct": o.IsCorrect,
			}
			if err := tx.Model(&models.Option{}).Where("id = ?", o.ID).Updates(optionUpdates).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetContestForAdmin(contestID)
}

func (s *ContestService) DeleteQuestions(contestID uint, questionIDs []uint) (*models.Contest, error) {
	var contest models.Contest
	if err := s.db.First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := deleteQuestionsCascade(tx, contestID, questionIDs); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetContestForAdmin(contestID)
}

// deleteQuestionsCascade removes questions of a contest together with
// their options. A nil questionIDs slice removes every question.
func deleteQuestionsCascade(tx *gorm.DB, contestID uint, questionIDs []uint) error {
	query := tx.Model(&models.Question{}).Where("contest_id = ?", contestID)
	if questionIDs != nil {
		query = query.Where("id IN ?", questionIDs)
	}

	var matched []uint
	if err := query.Pluck("id", &matched).Error; err != nil {
		return err
	}
	if len(matched) == 0 {
		return nil
	}

	if err := tx.Where("question_id IN ?", matched).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", matched).Delete(&models.Question{}).Error
}

func validateContestTimes(req *ContestRequest) error {
	if !req.IsFixTime {
		return nil
	}
	if req.StartTime == nil || req.EndTime == nil {
		return ErrContestTimeRequired
	}
	if !req.StartTime.Before(*req.EndTime) {
		return ErrContestTimeInvalid
	}
	return nil
}

// validateQuestionBatch applies the structural checks that are internal
// to the incoming batch: unique question numbers, at least two options
// per question, exactly one correct option, unique option numbers.
func validateQuestionBatch(questions []QuestionUpsertRequest) error {
	questionNumbers := make(map[int]bool, len(questions))
	for _, q := range questions {
		if questionNumbers[q.Number] {
			return ErrQuestionNumberTaken
		}
		questionNumbers[q.Number] = true

		if len(q.Options) < 2 {
			return ErrTooFewOptions
		}

		correctCount := 0
		optionNumbers := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if o.IsCorrect {
				correctCount++
			}
			if optionNumbers[o.Number] {
				return ErrOptionNumberTaken
			}
			optionNumbers[o.Number] = true
		}
		if correctCount != 1 {
			return ErrCorrectOptionCount
		}
	}
	return nil
}

// validateQuestionUpsert checks the batch against what is already stored
// on the contest: referenced ids must exist, and numbers must not collide
// with rows that are not themselves part of the batch.
func validateQuestionUpsert(questions []QuestionUpsertRequest, existing []models.Question) error {
	existingByID := make(map[uint]*models.Question, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	batchQuestionIDs := make(map[uint]bool, len(questions))
	for _, q := range questions {
		if q.ID != 0 {
			batchQuestionIDs[q.ID] = true
		}
	}

	for _, q := range questions {
		var target *models.Question
		if q.ID != 0 {
			target = existingByID[q.ID]
			if target == nil {
				return ErrQuestionNotFound
			}
		}

		for i := range existing {
			if existing[i].Number == q.Number && !batchQuestionIDs[existing[i].ID] {
				return ErrQuestionNumberTaken
			}
		}

		if target == nil {
			continue
		}

		existingOptions := make(map[uint]*models.Option, len(target.Options))
		batchOptionIDs := make(map[uint]bool, len(q.Options))
		for i := range target.Options {
			existingOptions[target.Options[i].ID] = &target.Options[i]
		}
		for _, o := range q.Options {
			if o.ID != 0 {
				batchOptionIDs[o.ID] = true
			}
		}

		for _, o := range q.Options {
			if o.ID != 0 && existingOptions[o.ID] == nil {
				return ErrOptionNotFound
			}
			for i := range target.Options {
				if target.Options[i].Number == o.Number && !batchOptionIDs[target.Options[i].ID] {
					return ErrOptionNumberTaken
				}
			}
		}
	}
	return nil
}

func contestToView(contest *models.Contest) ContestView {
	view := ContestView{
		ID:          contest.ID,
		Name:        contest.Name,
		Description: contest.Description,
		IsFixTime:   contest.IsFixTime,
		StartTime:   contest.StartTime,
		EndTime:     contest.EndTime,
		Questions:   make([]QuestionView, 0, len(contest.Questions)),
	}
	if contest.Author != nil {
		view.Author = *contest.Author
	}
	for _, q := range contest.Questions {
		question := QuestionView{
			ID:      q.ID,
			Number:  q.Number,
			Content: q.Content,
			Options: make([]OptionView, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, OptionView{
				ID:      o.ID,
				Number:  o.Number,
				Content: o.Content,
			})
		}
		view.Questions = append(view.Questions, question)
	}
	return view
}

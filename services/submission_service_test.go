package services_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"contesthub/models"
	"contesthub/services"
)

func TestStartSubmissionWindowGating(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)

	if _, err := service.StartSubmission(999, user.ID); err != services.ErrContestNotFound {
		t.Fatalf("expected contest-not-found, got %v", err)
	}

	open := createTestContest(t, db, author.ID, nil, nil)
	if _, err := service.StartSubmission(open.ID, 999); err != services.ErrUserNotFound {
		t.Fatalf("expected user-not-found, got %v", err)
	}

	future := createTestContest(t, db, author.ID,
		timePtr(testNow.Add(1*time.Hour)), timePtr(testNow.Add(2*time.Hour)))
	if _, err := service.StartSubmission(future.ID, user.ID); err != services.ErrContestNotStarted {
		t.Fatalf("expected not-started, got %v", err)
	}

	past := createTestContest(t, db, author.ID,
		timePtr(testNow.Add(-2*time.Hour)), timePtr(testNow.Add(-1*time.Hour)))
	if _, err := service.StartSubmission(past.ID, user.ID); err != services.ErrContestEnded {
		t.Fatalf("expected ended, got %v", err)
	}

	running := createTestContest(t, db, author.ID,
		timePtr(testNow.Add(-1*time.Hour)), timePtr(testNow.Add(1*time.Hour)))
	submission, err := service.StartSubmission(running.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if submission.ID == 0 {
		t.Fatalf("expected a generated submission id")
	}
	if submission.Score != nil {
		t.Fatalf("expected nil score on a fresh submission, got %d", *submission.Score)
	}
}

func TestGradeSubmissionScoring(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)
	contest := createTestContest(t, db, author.ID, nil, nil)
	q1 := createTestQuestion(t, db, contest.ID, 1)
	q2 := createTestQuestion(t, db, contest.ID, 2)
	q3 := createTestQuestion(t, db, contest.ID, 3)

	if _, err := service.GradeSubmission(999, &services.GradeSubmissionRequest{}); err != services.ErrSubmissionNotFound {
		t.Fatalf("expected submission-not-found, got %v", err)
	}

	submission, err := service.StartSubmission(contest.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Two answers hit the correct option, one picks a wrong one.
	view, err := service.GradeSubmission(submission.ID, &services.GradeSubmissionRequest{
		Answers: []services.SubmissionAnswerRequest{
			{QuestionID: q1.ID, OptionID: q1.Options[0].ID},
			{QuestionID: q2.ID, OptionID: q2.Options[0].ID},
			{QuestionID: q3.ID, OptionID: q3.Options[1].ID},
		},
		TotalTime: 340,
	})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if view.Score != 2 {
		t.Fatalf("expected score 2, got %d", view.Score)
	}
	if view.TotalTime != 340 {
		t.Fatalf("expected total time 340, got %d", view.TotalTime)
	}
	if len(view.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(view.Answers))
	}
	if len(view.Contest.Questions) != 3 {
		t.Fatalf("expected contest questions in the graded view, got %d", len(view.Contest.Questions))
	}
	if view.User.ID != user.ID {
		t.Fatalf("expected submitting user in the view")
	}

	payload, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(payload), "author") {
		t.Fatalf("graded view must withhold the contest author: %s", payload)
	}
}

func TestGradeSubmissionRejectsSecondGrade(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)
	contest := createTestContest(t, db, author.ID, nil, nil)
	question := createTestQuestion(t, db, contest.ID, 1)

	submission, err := service.StartSubmission(contest.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	req := &services.GradeSubmissionRequest{
		Answers: []services.SubmissionAnswerRequest{
			{QuestionID: question.ID, OptionID: question.Options[0].ID},
		},
	}
	if _, err := service.GradeSubmission(submission.ID, req); err != nil {
		t.Fatalf("first grade failed: %v", err)
	}
	if _, err := service.GradeSubmission(submission.ID, req); err != services.ErrSubmissionGraded {
		t.Fatalf("expected already-graded rejection, got %v", err)
	}

	var answerCount int64
	db.Model(&models.Answer{}).Where("submission_id = ?", submission.ID).Count(&answerCount)
	if answerCount != 1 {
		t.Fatalf("second grade must not insert answers, found %d", answerCount)
	}
}

func TestGradeSubmissionRechecksWindow(t *testing.T) {
	db := newTestDB(t)
	current := testNow
	service := services.NewSubmissionService(db, func() time.Time { return current })
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)
	contest := createTestContest(t, db, author.ID,
		timePtr(testNow.Add(-1*time.Hour)), timePtr(testNow.Add(1*time.Hour)))
	question := createTestQuestion(t, db, contest.ID, 1)

	submission, err := service.StartSubmission(contest.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// The window elapses between start and grading.
	current = testNow.Add(2 * time.Hour)

	_, err = service.GradeSubmission(submission.ID, &services.GradeSubmissionRequest{
		Answers: []services.SubmissionAnswerRequest{
			{QuestionID: question.ID, OptionID: question.Options[0].ID},
		},
	})
	if err != services.ErrContestEnded {
		t.Fatalf("expected ended rejection at grading time, got %v", err)
	}

	var reloaded models.Submission
	db.First(&reloaded, submission.ID)
	if reloaded.Score != nil {
		t.Fatalf("rejected grading must not write a score")
	}
}

func TestGradeSubmissionUnknownOption(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)
	contest := createTestContest(t, db, author.ID, nil, nil)
	question := createTestQuestion(t, db, contest.ID, 1)

	submission, err := service.StartSubmission(contest.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	_, err = service.GradeSubmission(submission.ID, &services.GradeSubmissionRequest{
		Answers: []services.SubmissionAnswerRequest{
			{QuestionID: question.ID, OptionID: 999},
		},
	})
	if err != services.ErrOptionNotFound {
		t.Fatalf("expected option-not-found, got %v", err)
	}

	var answerCount int64
	db.Model(&models.Answer{}).Count(&answerCount)
	if answerCount != 0 {
		t.Fatalf("rejected grading must not persist answers, found %d", answerCount)
	}
}

func TestGetSubmissionResultProjections(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	user := createTestUser(t, db, "alice", models.RoleUser)
	contest := createTestContest(t, db, author.ID, nil, nil)
	question := createTestQuestion(t, db, contest.ID, 1)

	if _, err := service.GetSubmissionResult(999); err != services.ErrSubmissionNotFound {
		t.Fatalf("expected submission-not-found, got %v", err)
	}

	submission, err := service.StartSubmission(contest.ID, user.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	result, err := service.GetSubmissionResult(submission.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if result.Ungraded == nil || result.Graded != nil {
		t.Fatalf("expected the ungraded variant, got %+v", result)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(payload), "questions") {
		t.Fatalf("ungraded result must not expose questions: %s", payload)
	}

	_, err = service.GradeSubmission(submission.ID, &services.GradeSubmissionRequest{
		Answers: []services.SubmissionAnswerRequest{
			{QuestionID: question.ID, OptionID: question.Options[0].ID},
		},
	})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}

	result, err = service.GetSubmissionResult(submission.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if result.Graded == nil || result.Ungraded != nil {
		t.Fatalf("expected the graded variant, got %+v", result)
	}
	if result.Graded.Score != 1 || len(result.Graded.Contest.Questions) != 1 {
		t.Fatalf("expected full graded projection, got %+v", result.Graded)
	}
}

func TestSubmissionListings(t *testing.T) {
	db := newTestDB(t)
	service := services.NewSubmissionService(db, fixedClock(testNow))
	author := createTestUser(t, db, "admin", models.RoleAdmin)
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	first := createTestContest(t, db, author.ID, nil, nil)
	second := createTestContest(t, db, author.ID, nil, nil)

	mustStart := func(contestID, userID uint) {
		t.Helper()
		if _, err := service.StartSubmission(contestID, userID); err != nil {
			t.Fatalf("start failed: %v", err)
		}
	}
	mustStart(first.ID, alice.ID)
	mustStart(first.ID, bob.ID)
	mustStart(second.ID, alice.ID)

	byUser, err := service.FindAllByUser(alice.ID)
	if err != nil || len(byUser) != 2 {
		t.Fatalf("expected 2 submissions for alice, got %d (%v)", len(byUser), err)
	}

	byUserAndContest, err := service.FindAllByUserAndContest(alice.ID, first.ID)
	if err != nil || len(byUserAndContest) != 1 {
		t.Fatalf("expected 1 submission for alice on the first contest, got %d (%v)", len(byUserAndContest), err)
	}

	byContest, err := service.FindAllByContest(first.ID)
	if err != nil || len(byContest) != 2 {
		t.Fatalf("expected 2 submissions on the first contest, got %d (%v)", len(byContest), err)
	}
}

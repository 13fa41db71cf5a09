package services

import "errors"

// Not-found errors: a referenced record does not exist.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrContestNotFound    = errors.New("contest not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// Invalid-input errors: a structural or time-window rule was violated.
// Validation runs before any write, so a rejected request leaves no
// partial state behind.
var (
	ErrContestTimeRequired = errors.New("start time and end time are required for a fixed-time contest")
	ErrContestTimeInvalid  = errors.New("start time must be before end time")
	ErrContestNotStarted   = errors.New("contest has not started")
	ErrContestEnded        = errors.New("contest has ended")
	ErrQuestionAfterStart  = errors.New("cannot add question after contest start")
	ErrQuestionNumberTaken = errors.New("question numbers must be unique within a contest")
	ErrOptionNumberTaken   = errors.New("option numbers must be unique within a question")
	ErrTooFewOptions       = errors.New("each question must have at least two options")
	ErrCorrectOptionCount  = errors.New("each question must have exactly one correct option")
	ErrSubmissionGraded    = errors.New("submission already graded")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// IsNotFound reports whether err maps to a missing record, so HTTP
// handlers can answer 404 instead of 400.
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrContestNotFound),
		errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrOptionNotFound),
		errors.Is(err, ErrSubmissionNotFound):
		return true
	}
	return false
}

// IsInvalidInput reports whether err maps to a rejected precondition.
func IsInvalidInput(err error) bool {
	switch {
	case errors.Is(err, ErrContestTimeRequired),
		errors.Is(err, ErrContestTimeInvalid),
		errors.Is(err, ErrContestNotStarted),
		errors.Is(err, ErrContestEnded),
		errors.Is(err, ErrQuestionAfterStart),
		errors.Is(err, ErrQuestionNumberTaken),
		errors.Is(err, ErrOptionNumberTaken),
		errors.Is(err, ErrTooFewOptions),
		errors.Is(err, ErrCorrectOptionCount),
		errors.Is(err, ErrSubmissionGraded),
		errors.Is(err, ErrUsernameTaken):
		return true
	}
	return false
}

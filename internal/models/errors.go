package models

import "errors"

var (
	// ErrQuizNotFound is returned when a quiz code or id is unknown, or
	// the quiz is not accepting submissions.
	ErrQuizNotFound = errors.New("quiz not found or inactive")
	// ErrDuplicateSubmission is returned when the student already has a
	// recorded attempt for this quiz.
	ErrDuplicateSubmission = errors.New("quiz already submitted")
	// ErrInvalidAnswer indicates a malformed answer index.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrStatNotFound indicates no StudentStat record exists yet.
	ErrStatNotFound = errors.New("student stats not found")
	// ErrAttemptNotRecorded is returned by stat tracking when no attempt
	// exists in the quiz store for the (quiz, student) pair.
	ErrAttemptNotRecorded = errors.New("no recorded attempt for this quiz")
)

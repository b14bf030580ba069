package service

import (
	"context"

	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizStore is the persistence surface the services need from the quiz
// collection. Implemented by repository.QuizRepository (Mongo) and
// memory.Store (tests).
type QuizStore interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Quiz, error)
	FindByCode(ctx context.Context, code string) (*models.Quiz, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	ListActive(ctx context.Context) ([]models.Quiz, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	// AddParticipant must be conditional on (quiz, student) uniqueness at
	// the storage layer and return ErrDuplicateSubmission when the guard
	// fails.
	AddParticipant(ctx context.Context, quizID primitive.ObjectID, p models.Participant) error
	HasParticipant(ctx context.Context, quizID primitive.ObjectID, userID string) (bool, error)
	SetParticipantTimeTaken(ctx context.Context, quizID primitive.ObjectID, userID string, seconds int) error
	CrossQuizTotals(ctx context.Context) ([]models.AdminLeaderboardRow, error)
}

// StatStore persists the per-student lifetime rollups.
type StatStore interface {
	FindByUser(ctx context.Context, userID string) (*models.StudentStat, error)
	// ApplyAttempt must apply the increments atomically and at most once
	// per (student, quiz), keyed on the entry's quizId; a repeat call
	// returns the record unchanged.
	ApplyAttempt(ctx context.Context, userID string, delta models.AttemptDelta, entry models.Activity) (*models.StudentStat, error)
	AddActivity(ctx context.Context, userID string, entry models.Activity) error
	HasAttemptActivity(ctx context.Context, userID string, quizID primitive.ObjectID) (bool, error)
}

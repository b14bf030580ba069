package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poll-quiz-service/internal/logger"
	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type StatService struct {
	Stats   StatStore
	Quizzes QuizStore
}

func NewStatService(stats StatStore, quizzes QuizStore) *StatService {
	return &StatService{Stats: stats, Quizzes: quizzes}
}

type RecordAttemptInput struct {
	UserID         string
	QuizID         primitive.ObjectID
	Score          int
	CorrectAnswers int
	TotalQuestions int
	TimeTaken      int
}

// RecordAttempt folds one accepted submission into the student's
// lifetime rollup. Storage errors propagate; the caller decides whether
// they are fatal.
func (s *StatService) RecordAttempt(ctx context.Context, in RecordAttemptInput) error {
	now := time.Now()
	entry := models.Activity{
		Type:      models.ActivityQuizAttempted,
		Message:   fmt.Sprintf("Attempted a quiz (ID: %s) and scored %d", in.QuizID.Hex(), in.Score),
		QuizID:    in.QuizID,
		Score:     in.Score,
		CreatedAt: now,
	}
	delta := models.AttemptDelta{
		Score:          in.Score,
		CorrectAnswers: in.CorrectAnswers,
		TotalQuestions: in.TotalQuestions,
		TimeTaken:      in.TimeTaken,
		At:             now,
	}
	_, err := s.Stats.ApplyAttempt(ctx, in.UserID, delta, entry)
	return err
}

// GetOrDefault returns the student's stats, or a zero-valued record
// when none exists yet. Never a not-found error.
func (s *StatService) GetOrDefault(ctx context.Context, userID string) (*models.StudentStat, error) {
	stat, err := s.Stats.FindByUser(ctx, userID)
	if errors.Is(err, models.ErrStatNotFound) {
		return &models.StudentStat{UserID: userID, Activity: []models.Activity{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if stat.Activity == nil {
		stat.Activity = []models.Activity{}
	}
	return stat, nil
}

// TrackQuiz is the client-driven stat tracking call kept for wire
// compatibility. It only counts stats for an attempt the quiz store has
// actually recorded, and at most once per (quiz, student); the submit
// path is the sole writer for new attempts.
func (s *StatService) TrackQuiz(ctx context.Context, userID string, in RecordAttemptInput) error {
	recorded, err := s.Quizzes.HasParticipant(ctx, in.QuizID, userID)
	if err != nil {
		return err
	}
	if !recorded {
		return models.ErrAttemptNotRecorded
	}

	// Fast path only; ApplyAttempt's once-per-(student, quiz) guard is
	// what actually prevents double-counting under concurrent calls.
	tracked, err := s.Stats.HasAttemptActivity(ctx, userID, in.QuizID)
	if err != nil {
		return err
	}
	if !tracked {
		if err := s.RecordAttempt(ctx, in); err != nil {
			return err
		}
	}

	// Retrofit timing onto the stored attempt when it was recorded
	// before the time was known. Separate error channel: log and keep
	// going.
	if in.TimeTaken > 0 {
		quiz, err := s.Quizzes.FindByID(ctx, in.QuizID)
		if err == nil {
			if p, ok := quiz.ParticipantFor(userID); ok && p.TimeTaken == 0 {
				if err := s.Quizzes.SetParticipantTimeTaken(ctx, in.QuizID, userID, in.TimeTaken); err != nil {
					logger.Log.Warn("timeTaken retrofit failed",
						zap.String("userId", userID),
						zap.String("quizId", in.QuizID.Hex()),
						zap.Error(err))
				}
			}
		}
	}
	return nil
}

// AddQuizNotice appends a quiz_added activity entry, creating the stat
// record if the student has none yet.
func (s *StatService) AddQuizNotice(ctx context.Context, userID string, quizID primitive.ObjectID, message string) error {
	return s.Stats.AddActivity(ctx, userID, models.Activity{
		Type:      models.ActivityQuizAdded,
		Message:   message,
		QuizID:    quizID,
		CreatedAt: time.Now(),
	})
}

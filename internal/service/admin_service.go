package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"poll-quiz-service/internal/event"
	"poll-quiz-service/internal/logger"
	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminService covers the instructor-side quiz lifecycle: creation,
// status toggling and listing. Question generation happens elsewhere;
// the instructor hands us finished questions.
type AdminService struct {
	Quizzes QuizStore
	Stats   *StatService
	Events  event.Publisher
}

func NewAdminService(quizzes QuizStore, stats *StatService, events event.Publisher) *AdminService {
	if events == nil {
		events = event.Noop{}
	}
	return &AdminService{Quizzes: quizzes, Stats: stats, Events: events}
}

type CreateQuestionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,max=6"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type CreateQuizRequest struct {
	Topic          string                  `json:"topic" binding:"required"`
	Difficulty     string                  `json:"difficulty" binding:"required"`
	Questions      []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
	NotifyStudents []string                `json:"notifyStudents"`
}

func (s *AdminService) CreateQuiz(ctx context.Context, creator models.Identity, req CreateQuizRequest) (*models.Quiz, error) {
	if !models.ValidDifficulty(req.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", models.ErrInvalidAnswer, req.Difficulty)
	}
	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d has no valid correct option", models.ErrInvalidAnswer, i)
		}
		questions[i] = models.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
	}

	code, err := s.uniqueQuizCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quiz := &models.Quiz{
		QuizCode:     code,
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		Status:       models.StatusActive,
		CreatedBy:    creator.ID,
		Questions:    questions,
		Participants: []models.Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("A new quiz %q has been created by %s", quiz.Topic, creator.Name)
	for _, studentID := range req.NotifyStudents {
		if err := s.Stats.AddQuizNotice(ctx, studentID, quiz.ID, message); err != nil {
			logger.Log.Warn("quiz notice failed",
				zap.String("userId", studentID),
				zap.String("quizId", quiz.ID.Hex()),
				zap.Error(err))
		}
	}

	if s.Events != nil {
		go func() {
			if err := s.Events.Publish(event.QuizCreated, map[string]interface{}{
				"quizId":    quiz.ID.Hex(),
				"quizCode":  quiz.QuizCode,
				"topic":     quiz.Topic,
				"createdBy": creator.ID,
			}); err != nil {
				logger.Log.Warn("quiz created event publish failed", zap.Error(err))
			}
		}()
	}

	return quiz, nil
}

// SetStatus toggles active/inactive. Only the creator may do it;
// archived quizzes stay archived.
func (s *AdminService) SetStatus(ctx context.Context, creator models.Identity, quizID primitive.ObjectID, status string) error {
	if status != models.StatusActive && status != models.StatusInactive {
		return fmt.Errorf("%w: unknown status %q", models.ErrInvalidAnswer, status)
	}
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != creator.ID {
		return models.ErrQuizNotFound
	}
	if err := s.Quizzes.UpdateStatus(ctx, quizID, status); err != nil {
		return err
	}

	if s.Events != nil {
		go func() {
			if err := s.Events.Publish(event.QuizStatusChanged, map[string]interface{}{
				"quizId": quizID.Hex(),
				"status": status,
			}); err != nil {
				logger.Log.Warn("quiz status event publish failed", zap.Error(err))
			}
		}()
	}
	return nil
}

type AdminQuizSummary struct {
	ID               string    `json:"id"`
	Topic            string    `json:"topic"`
	Difficulty       string    `json:"difficulty"`
	QuizCode         string    `json:"quizCode"`
	Status           string    `json:"status"`
	TotalQuestions   int       `json:"totalQuestions"`
	ParticipantCount int       `json:"participantCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (s *AdminService) ListQuizzes(ctx context.Context, creator models.Identity) ([]AdminQuizSummary, error) {
	quizzes, err := s.Quizzes.ListByCreator(ctx, creator.ID)
	if err != nil {
		return nil, err
	}
	out := make([]AdminQuizSummary, len(quizzes))
	for i, q := range quizzes {
		out[i] = AdminQuizSummary{
			ID:               q.ID.Hex(),
			Topic:            q.Topic,
			Difficulty:       q.Difficulty,
			QuizCode:         q.QuizCode,
			Status:           q.Status,
			TotalQuestions:   len(q.Questions),
			ParticipantCount: len(q.Participants),
			CreatedAt:        q.CreatedAt,
		}
	}
	return out, nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// uniqueQuizCode draws random 6-character codes until one is free. The
// unique index on quizCode backstops the lost race between the check
// and the insert.
func (s *AdminService) uniqueQuizCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, models.QuizCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i := range buf {
			buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
		}
		code := string(buf)
		if _, err := s.Quizzes.FindByCode(ctx, code); errors.Is(err, models.ErrQuizNotFound) {
			return code, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique quiz code")
}

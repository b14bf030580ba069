package service

import (
	"context"
	"fmt"
	"time"

	"poll-quiz-service/internal/event"
	"poll-quiz-service/internal/logger"
	"poll-quiz-service/internal/models"

	"go.uber.org/zap"
)

type SubmissionService struct {
	Quizzes QuizStore
	Stats   *StatService
	Boards  *LeaderboardService
	Events  event.Publisher
}

func NewSubmissionService(quizzes QuizStore, stats *StatService, boards *LeaderboardService, events event.Publisher) *SubmissionService {
	if events == nil {
		events = event.Noop{}
	}
	return &SubmissionService{Quizzes: quizzes, Stats: stats, Boards: boards, Events: events}
}

type AnswerInput struct {
	SelectedOption int `json:"selectedOption"`
}

type QuestionResult struct {
	QuestionIndex  int      `json:"questionIndex"`
	SelectedOption int      `json:"selectedOption"`
	CorrectOption  int      `json:"correctOption"`
	IsCorrect      bool     `json:"isCorrect"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
}

type SubmitResult struct {
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"totalQuestions"`
	CorrectAnswers  int              `json:"correctAnswers"`
	ParticipantID   string           `json:"participantId"`
	DetailedResults []QuestionResult `json:"detailedResults"`
}

// Submit validates, scores and records one attempt, then updates the
// student's lifetime stats and emits the completion event. The attempt
// append is the only write that can fail the call once validation
// passed; everything after it is best-effort.
func (s *SubmissionService) Submit(ctx context.Context, quizCode string, student models.Identity, answers []AnswerInput, timeTaken int) (*SubmitResult, error) {
	quiz, err := s.Quizzes.FindActiveByCode(ctx, quizCode)
	if err != nil {
		return nil, err
	}

	// Extra answers beyond the question count are ignored; a negative
	// option index is malformed input rather than a wrong answer.
	for i, a := range answers {
		if i >= len(quiz.Questions) {
			break
		}
		if a.SelectedOption < 0 {
			return nil, fmt.Errorf("%w: negative option for question %d", models.ErrInvalidAnswer, i)
		}
	}

	// Fast path; the storage-level guard in AddParticipant closes the
	// race this check leaves open.
	exists, err := s.Quizzes.HasParticipant(ctx, quiz.ID, student.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateSubmission
	}

	correctCount := 0
	processed := make([]models.ParticipantAnswer, len(quiz.Questions))
	for i, q := range quiz.Questions {
		selected := models.UnansweredOption
		if i < len(answers) {
			selected = answers[i].SelectedOption
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correctCount++
		}
		processed[i] = models.ParticipantAnswer{
			QuestionIndex:  i,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
		}
	}
	score := models.ComputeScore(correctCount, len(quiz.Questions))

	participant := models.Participant{
		User:        student.ID,
		Name:        student.Name,
		Email:       student.Email,
		Score:       score,
		Answers:     processed,
		CompletedAt: time.Now(),
		TimeTaken:   timeTaken,
	}
	if err := s.Quizzes.AddParticipant(ctx, quiz.ID, participant); err != nil {
		return nil, err
	}

	// The attempt is durable from here on. Stat aggregation is part of
	// the same server-side operation but must not undo the submission;
	// failures are logged with enough context to reconcile by hand.
	if err := s.Stats.RecordAttempt(ctx, RecordAttemptInput{
		UserID:         student.ID,
		QuizID:         quiz.ID,
		Score:          score,
		CorrectAnswers: correctCount,
		TotalQuestions: len(quiz.Questions),
		TimeTaken:      timeTaken,
	}); err != nil {
		logger.Log.Error("student stat update failed after accepted submission",
			zap.String("userId", student.ID),
			zap.String("quizId", quiz.ID.Hex()),
			zap.Int("score", score),
			zap.Error(err))
	}

	if s.Boards != nil {
		s.Boards.Invalidate(ctx, quiz.ID)
	}

	if s.Events != nil {
		go func() {
			if err := s.Events.Publish(event.SubmissionCompleted, map[string]interface{}{
				"quizId":    quiz.ID.Hex(),
				"quizCode":  quiz.QuizCode,
				"quizTopic": quiz.Topic,
				"userId":    student.ID,
				"name":      student.Name,
				"score":     score,
				"timestamp": participant.CompletedAt,
			}); err != nil {
				logger.Log.Warn("submission event publish failed",
					zap.String("quizId", quiz.ID.Hex()), zap.Error(err))
			}
		}()
	}

	results := make([]QuestionResult, len(quiz.Questions))
	for i, q := range quiz.Questions {
		results[i] = QuestionResult{
			QuestionIndex:  i,
			SelectedOption: processed[i].SelectedOption,
			CorrectOption:  q.CorrectAnswer,
			IsCorrect:      processed[i].IsCorrect,
			Question:       q.Question,
			Options:        q.Options,
		}
	}

	return &SubmitResult{
		Score:           score,
		TotalQuestions:  len(quiz.Questions),
		CorrectAnswers:  correctCount,
		ParticipantID:   student.ID,
		DetailedResults: results,
	}, nil
}

type CheckAnswerResult struct {
	IsCorrect     bool     `json:"isCorrect"`
	CorrectOption int      `json:"correctOption"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
}

// CheckAnswer grades a single answer without recording anything.
func (s *SubmissionService) CheckAnswer(ctx context.Context, quizCode string, questionIndex, selectedOption int) (*CheckAnswerResult, error) {
	quiz, err := s.Quizzes.FindActiveByCode(ctx, quizCode)
	if err != nil {
		return nil, err
	}
	if questionIndex < 0 || questionIndex >= len(quiz.Questions) {
		return nil, fmt.Errorf("%w: question index %d out of range", models.ErrInvalidAnswer, questionIndex)
	}
	q := quiz.Questions[questionIndex]
	return &CheckAnswerResult{
		IsCorrect:     selectedOption == q.CorrectAnswer,
		CorrectOption: q.CorrectAnswer,
		Question:      q.Question,
		Options:       q.Options,
	}, nil
}

// StudentQuestion is a question with the answer key stripped.
type StudentQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type StudentQuizView struct {
	ID             string            `json:"id"`
	Topic          string            `json:"topic"`
	Difficulty     string            `json:"difficulty"`
	QuizCode       string            `json:"quizCode"`
	Questions      []StudentQuestion `json:"questions"`
	TotalQuestions int               `json:"totalQuestions"`
	CreatedBy      string            `json:"createdBy"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// GetForStudent returns an active quiz without correct answers.
func (s *SubmissionService) GetForStudent(ctx context.Context, quizCode string) (*StudentQuizView, error) {
	quiz, err := s.Quizzes.FindActiveByCode(ctx, quizCode)
	if err != nil {
		return nil, err
	}
	questions := make([]StudentQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = StudentQuestion{Question: q.Question, Options: q.Options}
	}
	return &StudentQuizView{
		ID:             quiz.ID.Hex(),
		Topic:          quiz.Topic,
		Difficulty:     quiz.Difficulty,
		QuizCode:       quiz.QuizCode,
		Questions:      questions,
		TotalQuestions: len(quiz.Questions),
		CreatedBy:      quiz.CreatedBy,
		CreatedAt:      quiz.CreatedAt,
	}, nil
}

type ActiveQuizSummary struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	QuizCode   string    `json:"quizCode"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListActive lists open quizzes for the student dashboard.
func (s *SubmissionService) ListActive(ctx context.Context) ([]ActiveQuizSummary, error) {
	quizzes, err := s.Quizzes.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ActiveQuizSummary, len(quizzes))
	for i, q := range quizzes {
		out[i] = ActiveQuizSummary{
			ID:         q.ID.Hex(),
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
			QuizCode:   q.QuizCode,
			CreatedBy:  q.CreatedBy,
			CreatedAt:  q.CreatedAt,
		}
	}
	return out, nil
}

// Package memory holds mutex-guarded in-memory stores that mirror the
// Mongo repositories' semantics, including the conditional participant
// append. Useful for tests and local demos without a database.
package memory

import (
	"context"
	"sync"

	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu      sync.RWMutex
	quizzes map[primitive.ObjectID]*models.Quiz
	stats   map[string]*models.StudentStat
}

func NewStore() *Store {
	return &Store{
		quizzes: make(map[primitive.ObjectID]*models.Quiz),
		stats:   make(map[string]*models.StudentStat),
	}
}

func (s *Store) FindActiveByCode(_ context.Context, code string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code = models.NormalizeQuizCode(code)
	for _, q := range s.quizzes {
		if q.QuizCode == code && q.Status == models.StatusActive {
			return copyQuiz(q), nil
		}
	}
	return nil, models.ErrQuizNotFound
}

func (s *Store) FindByCode(_ context.Context, code string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code = models.NormalizeQuizCode(code)
	for _, q := range s.quizzes {
		if q.QuizCode == code {
			return copyQuiz(q), nil
		}
	}
	return nil, models.ErrQuizNotFound
}

func (s *Store) FindByID(_ context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, models.ErrQuizNotFound
	}
	return copyQuiz(q), nil
}

func (s *Store) ListActive(_ context.Context) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Quiz
	for _, q := range s.quizzes {
		if q.Status == models.StatusActive {
			out = append(out, *copyQuiz(q))
		}
	}
	return out, nil
}

func (s *Store) ListByCreator(_ context.Context, userID string) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Quiz
	for _, q := range s.quizzes {
		if q.CreatedBy == userID {
			out = append(out, *copyQuiz(q))
		}
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID.IsZero() {
		quiz.ID = primitive.NewObjectID()
	}
	s.quizzes[quiz.ID] = copyQuiz(quiz)
	return nil
}

func (s *Store) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return models.ErrQuizNotFound
	}
	q.Status = status
	return nil
}

// AddParticipant performs the same check-and-push under one lock that
// the Mongo repository expresses as a conditional update.
func (s *Store) AddParticipant(_ context.Context, quizID primitive.ObjectID, p models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return models.ErrQuizNotFound
	}
	if _, exists := q.ParticipantFor(p.User); exists {
		return models.ErrDuplicateSubmission
	}
	q.Participants = append(q.Participants, p)
	return nil
}

func (s *Store) HasParticipant(_ context.Context, quizID primitive.ObjectID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return false, nil
	}
	_, exists := q.ParticipantFor(userID)
	return exists, nil
}

func (s *Store) SetParticipantTimeTaken(_ context.Context, quizID primitive.ObjectID, userID string, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return models.ErrAttemptNotRecorded
	}
	p, exists := q.ParticipantFor(userID)
	if !exists {
		return models.ErrAttemptNotRecorded
	}
	p.TimeTaken = seconds
	return nil
}

func (s *Store) CrossQuizTotals(_ context.Context) ([]models.AdminLeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byUser := make(map[string]*models.AdminLeaderboardRow)
	for _, q := range s.quizzes {
		for _, p := range q.Participants {
			if p.CompletedAt.IsZero() {
				continue
			}
			row, ok := byUser[p.User]
			if !ok {
				row = &models.AdminLeaderboardRow{User: p.User, Name: p.Name, Email: p.Email}
				byUser[p.User] = row
			}
			row.TotalScore += p.Score
			if p.CompletedAt.After(row.LastSubmission) {
				row.LastSubmission = p.CompletedAt
			}
		}
	}
	rows := make([]models.AdminLeaderboardRow, 0, len(byUser))
	for _, row := range byUser {
		rows = append(rows, *row)
	}
	return rows, nil
}

func (s *Store) FindByUser(_ context.Context, userID string) (*models.StudentStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.stats[userID]
	if !ok {
		return nil, models.ErrStatNotFound
	}
	out := *stat
	out.Activity = append([]models.Activity(nil), stat.Activity...)
	return &out, nil
}

// ApplyAttempt holds the check-and-increment under one lock, the same
// once-per-(student, quiz) boundary the Mongo repository expresses as a
// filtered update. A repeat call returns the record unchanged.
func (s *Store) ApplyAttempt(_ context.Context, userID string, delta models.AttemptDelta, entry models.Activity) (*models.StudentStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stat, ok := s.stats[userID]
	if !ok {
		stat = &models.StudentStat{ID: primitive.NewObjectID(), UserID: userID}
		s.stats[userID] = stat
	}
	for _, a := range stat.Activity {
		if a.Type == models.ActivityQuizAttempted && a.QuizID == entry.QuizID {
			out := *stat
			out.Activity = append([]models.Activity(nil), stat.Activity...)
			return &out, nil
		}
	}
	stat.TotalQuizzesAttempted++
	stat.TotalScore += delta.Score
	stat.TotalQuestions += delta.TotalQuestions
	stat.CorrectAnswers += delta.CorrectAnswers
	stat.TotalTimeTaken += delta.TimeTaken
	stat.LastQuizAt = delta.At
	stat.Activity = append(stat.Activity, entry)
	stat.Recalculate()
	out := *stat
	out.Activity = append([]models.Activity(nil), stat.Activity...)
	return &out, nil
}

func (s *Store) AddActivity(_ context.Context, userID string, entry models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stat, ok := s.stats[userID]
	if !ok {
		stat = &models.StudentStat{ID: primitive.NewObjectID(), UserID: userID}
		s.stats[userID] = stat
	}
	stat.Activity = append(stat.Activity, entry)
	return nil
}

func (s *Store) HasAttemptActivity(_ context.Context, userID string, quizID primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.stats[userID]
	if !ok {
		return false, nil
	}
	for _, a := range stat.Activity {
		if a.Type == models.ActivityQuizAttempted && a.QuizID == quizID {
			return true, nil
		}
	}
	return false, nil
}

func copyQuiz(q *models.Quiz) *models.Quiz {
	out := *q
	out.Questions = append([]models.Question(nil), q.Questions...)
	out.Participants = append([]models.Participant(nil), q.Participants...)
	return &out
}

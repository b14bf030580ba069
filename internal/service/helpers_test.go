package service

import (
	"context"
	"time"

	"poll-quiz-service/internal/cache"
	"poll-quiz-service/internal/models"
	"poll-quiz-service/internal/repository/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	store       *memory.Store
	stats       *StatService
	boards      *LeaderboardService
	submissions *SubmissionService
	admin       *AdminService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	stats := NewStatService(store, store)
	boards := NewLeaderboardService(store, cache.NewMemory(64), 50*time.Millisecond)
	submissions := NewSubmissionService(store, stats, boards, nil)
	admin := NewAdminService(store, stats, nil)
	return &testEnv{
		store:       store,
		stats:       stats,
		boards:      boards,
		submissions: submissions,
		admin:       admin,
	}
}

// seedQuiz inserts an active quiz where every question's correct option
// is index 1.
func (e *testEnv) seedQuiz(code string, questionCount int) *models.Quiz {
	quiz := &models.Quiz{
		ID:         primitive.NewObjectID(),
		QuizCode:   code,
		Topic:      "Go Basics",
		Difficulty: models.DifficultyEasy,
		Status:     models.StatusActive,
		CreatedBy:  "admin-1",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	for i := 0; i < questionCount; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			Question:      "What prints hello?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: 1,
		})
	}
	if err := e.store.Create(context.Background(), quiz); err != nil {
		panic(err)
	}
	return quiz
}

func student(id string) models.Identity {
	return models.Identity{ID: id, Name: "Student " + id, Email: id + "@example.com", Role: models.RoleStudent}
}

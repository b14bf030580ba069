package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// UnansweredOption marks a question the student never answered. It can
// never equal a correct option index, so it always scores as incorrect.
const UnansweredOption = -1

// QuizCodeLength is the length of the human-enterable quiz code.
const QuizCodeLength = 6

type Question struct {
	Question      string   `bson:"question" json:"question"`
	Options       []string `bson:"options" json:"options"`
	CorrectAnswer int      `bson:"correctAnswer" json:"correctAnswer"`
}

type ParticipantAnswer struct {
	QuestionIndex  int  `bson:"questionIndex" json:"questionIndex"`
	SelectedOption int  `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool `bson:"isCorrect" json:"isCorrect"`
}

// Participant is one student's single scored attempt. It is immutable
// after creation except for the best-effort timeTaken retrofit.
type Participant struct {
	User        string              `bson:"user" json:"user"`
	Name        string              `bson:"name" json:"name"`
	Email       string              `bson:"email" json:"email"`
	Score       int                 `bson:"score" json:"score"`
	Answers     []ParticipantAnswer `bson:"answers" json:"answers"`
	CompletedAt time.Time           `bson:"completedAt" json:"completedAt"`
	TimeTaken   int                 `bson:"timeTaken" json:"timeTaken"` // seconds, 0 = unknown
}

type Quiz struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuizCode     string             `bson:"quizCode" json:"quizCode"`
	Topic        string             `bson:"topic" json:"topic"`
	Difficulty   string             `bson:"difficulty" json:"difficulty"`
	Status       string             `bson:"status" json:"status"`
	CreatedBy    string             `bson:"createdBy" json:"createdBy"`
	Questions    []Question         `bson:"questions" json:"questions"`
	Participants []Participant      `bson:"participants" json:"participants"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ParticipantFor returns the recorded attempt for a student, if any.
func (q *Quiz) ParticipantFor(userID string) (*Participant, bool) {
	for i := range q.Participants {
		if q.Participants[i].User == userID {
			return &q.Participants[i], true
		}
	}
	return nil, false
}

// NormalizeQuizCode maps user input to the canonical stored form.
func NormalizeQuizCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidDifficulty reports whether d is one of the supported levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ComputeScore converts a correct-answer count into the 0-100 integer
// score, rounding the percentage half up.
func ComputeScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

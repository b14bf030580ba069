package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityQuizAttempted = "quiz_attempted"
	ActivityQuizAdded     = "quiz_added"
)

// Activity is one append-only log entry on a student's record. Score
// and QuizID are the authoritative fields; Message is display-only.
type Activity struct {
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	QuizID    primitive.ObjectID `bson:"quizId,omitempty" json:"quizId,omitempty"`
	Score     int                `bson:"score" json:"score"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// StudentStat is the lifetime rollup for one student, created lazily on
// the first accepted submission.
type StudentStat struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID                string             `bson:"userId" json:"userId"`
	TotalQuizzesAttempted int                `bson:"totalQuizzesAttempted" json:"totalQuizzesAttempted"`
	TotalScore            int                `bson:"totalScore" json:"totalScore"`
	AverageScore          float64            `bson:"averageScore" json:"averageScore"`
	TotalQuestions        int                `bson:"totalQuestions" json:"totalQuestions"`
	CorrectAnswers        int                `bson:"correctAnswers" json:"correctAnswers"`
	Accuracy              float64            `bson:"accuracy" json:"accuracy"`
	TotalTimeTaken        int                `bson:"totalTimeTaken" json:"totalTimeTaken"` // seconds
	AverageTimePerQuiz    float64            `bson:"averageTimePerQuiz" json:"averageTimePerQuiz"`
	LastQuizAt            time.Time          `bson:"lastQuizAt,omitempty" json:"lastQuizAt,omitempty"`
	Activity              []Activity         `bson:"activity" json:"activity"`
}

// Recalculate refreshes the derived averages from the running totals.
func (s *StudentStat) Recalculate() {
	if s.TotalQuizzesAttempted > 0 {
		s.AverageScore = round2(float64(s.TotalScore) / float64(s.TotalQuizzesAttempted))
		s.AverageTimePerQuiz = round2(float64(s.TotalTimeTaken) / float64(s.TotalQuizzesAttempted))
	} else {
		s.AverageScore = 0
		s.AverageTimePerQuiz = 0
	}
	if s.TotalQuestions > 0 {
		s.Accuracy = round2(float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100)
	} else {
		s.Accuracy = 0
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

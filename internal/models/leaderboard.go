package models

import "time"

// LeaderboardEntry is one ranked row of a per-quiz leaderboard.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	User        string    `json:"user"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Score       int       `json:"score"`
	TimeTaken   int       `json:"timeTaken,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// QuizLeaderboard is the ranked view of one quiz's completed attempts.
type QuizLeaderboard struct {
	QuizID            string             `json:"quizId"`
	QuizTopic         string             `json:"quizTopic"`
	TotalParticipants int                `json:"totalParticipants"`
	Entries           []LeaderboardEntry `json:"leaderboard"`
}

// AdminLeaderboardRow aggregates one student's attempts across every
// quiz. Ties on total score are broken by the most recent submission,
// the opposite direction from the per-quiz board.
type AdminLeaderboardRow struct {
	Rank           int       `bson:"-" json:"rank"`
	User           string    `bson:"_id" json:"user"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	TotalScore     int       `bson:"totalScore" json:"totalScore"`
	LastSubmission time.Time `bson:"lastSubmission" json:"lastSubmission"`
}

// AttemptDelta carries the increments applied to a StudentStat after an
// accepted submission.
type AttemptDelta struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	TimeTaken      int
	At             time.Time
}

package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"poll-quiz-service/internal/cache"
	"poll-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

type LeaderboardService struct {
	Quizzes QuizStore
	Cache   cache.Cache
	TTL     time.Duration

	sf singleflight.Group
}

func NewLeaderboardService(quizzes QuizStore, c cache.Cache, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{Quizzes: quizzes, Cache: c, TTL: ttl}
}

// RankByCode ranks an active quiz addressed by its human-enterable
// code.
func (s *LeaderboardService) RankByCode(ctx context.Context, quizCode string) (*models.QuizLeaderboard, error) {
	quiz, err := s.Quizzes.FindActiveByCode(ctx, quizCode)
	if err != nil {
		return nil, err
	}
	return s.rankCached(ctx, quiz)
}

// RankByID ranks by storage id. Works for inactive quizzes too:
// deactivation blocks submissions, not leaderboard reads.
func (s *LeaderboardService) RankByID(ctx context.Context, quizID primitive.ObjectID) (*models.QuizLeaderboard, error) {
	quiz, err := s.Quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return s.rankCached(ctx, quiz)
}

// Invalidate drops the cached board after an accepted submission.
func (s *LeaderboardService) Invalidate(ctx context.Context, quizID primitive.ObjectID) {
	if s.Cache != nil {
		s.Cache.Delete(ctx, boardKey(quizID))
	}
}

func boardKey(quizID primitive.ObjectID) string {
	return "leaderboard:" + quizID.Hex()
}

func (s *LeaderboardService) rankCached(ctx context.Context, quiz *models.Quiz) (*models.QuizLeaderboard, error) {
	if s.Cache == nil {
		board := rankQuiz(quiz)
		return &board, nil
	}

	key := boardKey(quiz.ID)
	if raw, ok := s.Cache.Get(ctx, key); ok {
		var board models.QuizLeaderboard
		if err := json.Unmarshal(raw, &board); err == nil {
			return &board, nil
		}
		// Corrupt entry: fall through and recompute.
		s.Cache.Delete(ctx, key)
	}

	// singleflight collapses concurrent recomputations of a hot board;
	// the quiz snapshot each caller already holds is consistent, so the
	// shared result is too.
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		board := rankQuiz(quiz)
		if raw, err := json.Marshal(board); err == nil {
			s.Cache.Set(ctx, key, raw, s.TTL)
		}
		return &board, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.QuizLeaderboard), nil
}

// rankQuiz orders completed attempts by score descending, ties broken
// by time taken ascending (absent last), then completion time ascending
// so the earliest finisher wins a full tie. Ranks run 1..N with no gaps.
func rankQuiz(quiz *models.Quiz) models.QuizLeaderboard {
	completed := make([]models.Participant, 0, len(quiz.Participants))
	for _, p := range quiz.Participants {
		if !p.CompletedAt.IsZero() {
			completed = append(completed, p)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		a, b := completed[i], completed[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if effectiveTime(a) != effectiveTime(b) {
			return effectiveTime(a) < effectiveTime(b)
		}
		return a.CompletedAt.Before(b.CompletedAt)
	})

	entries := make([]models.LeaderboardEntry, len(completed))
	for i, p := range completed {
		entries[i] = models.LeaderboardEntry{
			Rank:        i + 1,
			User:        p.User,
			Name:        p.Name,
			Email:       p.Email,
			Score:       p.Score,
			TimeTaken:   p.TimeTaken,
			CompletedAt: p.CompletedAt,
		}
	}

	return models.QuizLeaderboard{
		QuizID:            quiz.ID.Hex(),
		QuizTopic:         quiz.Topic,
		TotalParticipants: len(entries),
		Entries:           entries,
	}
}

// effectiveTime treats an unknown timeTaken as slower than any known
// one.
func effectiveTime(p models.Participant) int {
	if p.TimeTaken <= 0 {
		return int(^uint(0) >> 1)
	}
	return p.TimeTaken
}

// RankAllQuizzes builds the admin cross-quiz board: total score over
// every attempt, ties broken by the most recent submission first. Note
// this is the opposite direction from the per-quiz board.
func (s *LeaderboardService) RankAllQuizzes(ctx context.Context) ([]models.AdminLeaderboardRow, error) {
	rows, err := s.Quizzes.CrossQuizTotals(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].LastSubmission.After(rows[j].LastSubmission)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	if rows == nil {
		rows = []models.AdminLeaderboardRow{}
	}
	return rows, nil
}

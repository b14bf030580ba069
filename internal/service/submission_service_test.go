package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"poll-quiz-service/internal/models"
)

func TestSubmitScoring(t *testing.T) {
	testCases := []struct {
		name          string
		questionCount int
		answers       []AnswerInput
		wantScore     int
		wantCorrect   int
	}{
		{"all correct", 2, []AnswerInput{{1}, {1}}, 100, 2},
		{"all wrong", 2, []AnswerInput{{0}, {3}}, 0, 0},
		{"correct correct wrong unanswered", 4, []AnswerInput{{1}, {1}, {0}}, 50, 2},
		{"one of three rounds up", 3, []AnswerInput{{1}, {0}, {0}}, 33, 1},
		{"two of three rounds up", 3, []AnswerInput{{1}, {1}, {0}}, 67, 2},
		{"half question rounds up", 8, []AnswerInput{{1}}, 13, 1},
		{"no answers at all", 2, nil, 0, 0},
		{"extra answers ignored", 1, []AnswerInput{{1}, {3}, {2}}, 100, 1},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			quiz := env.seedQuiz("SCORE1", tc.questionCount)
			result, err := env.submissions.Submit(context.Background(), "SCORE1", student(string(rune('a'+i))), tc.answers, 60)
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if result.Score != tc.wantScore {
				t.Errorf("Expected score %d, got %d", tc.wantScore, result.Score)
			}
			if result.CorrectAnswers != tc.wantCorrect {
				t.Errorf("Expected %d correct, got %d", tc.wantCorrect, result.CorrectAnswers)
			}
			if result.TotalQuestions != len(quiz.Questions) {
				t.Errorf("Expected %d questions, got %d", len(quiz.Questions), result.TotalQuestions)
			}
		})
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	env := newTestEnv()
	env.seedQuiz("ABC123", 1)

	result, err := env.submissions.Submit(context.Background(), "abc123", student("s1"), []AnswerInput{{SelectedOption: 1}}, 45)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Score != 100 || result.CorrectAnswers != 1 || result.TotalQuestions != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(result.DetailedResults) != 1 {
		t.Fatalf("Expected 1 detailed result, got %d", len(result.DetailedResults))
	}
	detail := result.DetailedResults[0]
	if !detail.IsCorrect || detail.CorrectOption != 1 || detail.SelectedOption != 1 {
		t.Errorf("Unexpected detail: %+v", detail)
	}
}

func TestSubmitUnansweredNeverCorrect(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz("GAPS01", 3)

	result, err := env.submissions.Submit(context.Background(), "GAPS01", student("s1"), []AnswerInput{{1}}, 30)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	stored, _ := env.store.FindByID(context.Background(), quiz.ID)
	p, ok := stored.ParticipantFor("s1")
	if !ok {
		t.Fatal("participant not recorded")
	}
	for i := 1; i < 3; i++ {
		if p.Answers[i].SelectedOption != models.UnansweredOption {
			t.Errorf("Question %d: expected unanswered marker, got %d", i, p.Answers[i].SelectedOption)
		}
		if p.Answers[i].IsCorrect {
			t.Errorf("Question %d: unanswered must not be correct", i)
		}
	}
	if result.Score != 33 {
		t.Errorf("Expected score 33, got %d", result.Score)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz("DUP001", 2)

	if _, err := env.submissions.Submit(context.Background(), "DUP001", student("s1"), []AnswerInput{{1}, {1}}, 30); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	_, err := env.submissions.Submit(context.Background(), "DUP001", student("s1"), []AnswerInput{{0}, {0}}, 10)
	if !errors.Is(err, models.ErrDuplicateSubmission) {
		t.Fatalf("Expected ErrDuplicateSubmission, got %v", err)
	}

	stored, _ := env.store.FindByID(context.Background(), quiz.ID)
	if len(stored.Participants) != 1 {
		t.Errorf("Expected exactly 1 participant, got %d", len(stored.Participants))
	}
	// The first attempt must be untouched.
	if stored.Participants[0].Score != 100 {
		t.Errorf("First attempt was overwritten: score %d", stored.Participants[0].Score)
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.submissions.Submit(context.Background(), "NOPE99", student("s1"), nil, 0)
	if !errors.Is(err, models.ErrQuizNotFound) {
		t.Fatalf("Expected ErrQuizNotFound, got %v", err)
	}
}

func TestSubmitInactiveQuizRejected(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz("OFF001", 1)
	if err := env.store.UpdateStatus(context.Background(), quiz.ID, models.StatusInactive); err != nil {
		t.Fatal(err)
	}
	_, err := env.submissions.Submit(context.Background(), "OFF001", student("s1"), []AnswerInput{{1}}, 5)
	if !errors.Is(err, models.ErrQuizNotFound) {
		t.Fatalf("Expected ErrQuizNotFound for inactive quiz, got %v", err)
	}
}

func TestSubmitNegativeOptionRejected(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz("NEG001", 2)
	_, err := env.submissions.Submit(context.Background(), "NEG001", student("s1"), []AnswerInput{{1}, {-2}}, 5)
	if !errors.Is(err, models.ErrInvalidAnswer) {
		t.Fatalf("Expected ErrInvalidAnswer, got %v", err)
	}
	stored, _ := env.store.FindByID(context.Background(), quiz.ID)
	if len(stored.Participants) != 0 {
		t.Errorf("Rejected submission must not leave a participant, got %d", len(stored.Participants))
	}
}

func TestSubmitUpdatesStudentStats(t *testing.T) {
	env := newTestEnv()
	env.seedQuiz("STAT01", 4)

	if _, err := env.submissions.Submit(context.Background(), "STAT01", student("s1"), []AnswerInput{{1}, {1}, {0}}, 90); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	stat, err := env.stats.GetOrDefault(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetOrDefault failed: %v", err)
	}
	if stat.TotalQuizzesAttempted != 1 || stat.TotalScore != 50 || stat.CorrectAnswers != 2 || stat.TotalQuestions != 4 {
		t.Errorf("Unexpected stats: %+v", stat)
	}
	if stat.TotalTimeTaken != 90 {
		t.Errorf("Expected totalTimeTaken 90, got %d", stat.TotalTimeTaken)
	}
	if len(stat.Activity) != 1 || stat.Activity[0].Type != models.ActivityQuizAttempted {
		t.Errorf("Expected one quiz_attempted activity, got %+v", stat.Activity)
	}
}

func TestConcurrentSubmissionsSameStudent(t *testing.T) {
	env := newTestEnv()
	quiz := env.seedQuiz("RACE01", 2)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, duplicates := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.submissions.Submit(context.Background(), "RACE01", student("s1"), []AnswerInput{{1}, {1}}, 20)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, models.ErrDuplicateSubmission):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("Expected exactly 1 accepted submission, got %d", accepted)
	}
	if duplicates != workers-1 {
		t.Errorf("Expected %d duplicates, got %d", workers-1, duplicates)
	}
	stored, _ := env.store.FindByID(context.Background(), quiz.ID)
	if len(stored.Participants) != 1 {
		t.Errorf("Expected 1 participant, got %d", len(stored.Participants))
	}
	stat, _ := env.stats.GetOrDefault(context.Background(), "s1")
	if stat.TotalQuizzesAttempted != 1 {
		t.Errorf("Stats counted %d attempts for a single accepted submission", stat.TotalQuizzesAttempted)
	}
}

func TestCheckAnswer(t *testing.T) {
	env := newTestEnv()
	env.seedQuiz("CHK001", 2)

	result, err := env.submissions.CheckAnswer(context.Background(), "CHK001", 0, 1)
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if !result.IsCorrect || result.CorrectOption != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}

	result, err = env.submissions.CheckAnswer(context.Background(), "CHK001", 1, 3)
	if err != nil {
		t.Fatalf("CheckAnswer failed: %v", err)
	}
	if result.IsCorrect {
		t.Error("Wrong option reported correct")
	}

	if _, err := env.submissions.CheckAnswer(context.Background(), "CHK001", 5, 0); !errors.Is(err, models.ErrInvalidAnswer) {
		t.Errorf("Expected ErrInvalidAnswer for out-of-range index, got %v", err)
	}
}

func TestGetForStudentStripsAnswers(t *testing.T) {
	env := newTestEnv()
	env.seedQuiz("HIDE01", 3)

	view, err := env.submissions.GetForStudent(context.Background(), "HIDE01")
	if err != nil {
		t.Fatalf("GetForStudent failed: %v", err)
	}
	if view.TotalQuestions != 3 || len(view.Questions) != 3 {
		t.Errorf("Unexpected view: %+v", view)
	}
	for _, q := range view.Questions {
		if len(q.Options) != 4 || q.Question == "" {
			t.Errorf("Question payload incomplete: %+v", q)
		}
	}
}

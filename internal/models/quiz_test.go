package models

import "testing"

func TestComputeScore(t *testing.T) {
	cases := []struct {
		name     string
		correct  int
		total    int
		expected int
	}{
		{"all correct", 3, 3, 100},
		{"none correct", 0, 3, 0},
		{"half", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"eighth rounds up", 1, 8, 13},
		{"zero questions", 0, 0, 0},
		{"negative total", 1, -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeScore(tc.correct, tc.total); got != tc.expected {
				t.Errorf("ComputeScore(%d, %d) = %d, expected %d", tc.correct, tc.total, got, tc.expected)
			}
		})
	}
}

func TestNormalizeQuizCode(t *testing.T) {
	cases := map[string]string{
		"abc123":    "ABC123",
		"  ABC123 ": "ABC123",
		"AbC123":    "ABC123",
		"":          "",
	}
	for in, want := range cases {
		if got := NormalizeQuizCode(in); got != want {
			t.Errorf("NormalizeQuizCode(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !ValidDifficulty(d) {
			t.Errorf("Expected %q valid", d)
		}
	}
	for _, d := range []string{"", "EASY", "expert"} {
		if ValidDifficulty(d) {
			t.Errorf("Expected %q invalid", d)
		}
	}
}

func TestParticipantFor(t *testing.T) {
	quiz := &Quiz{Participants: []Participant{
		{User: "u1", Score: 50},
		{User: "u2", Score: 80},
	}}

	p, ok := quiz.ParticipantFor("u2")
	if !ok || p.Score != 80 {
		t.Errorf("Expected u2 with score 80, got %+v (ok=%v)", p, ok)
	}
	if _, ok := quiz.ParticipantFor("u3"); ok {
		t.Error("Expected no participant for u3")
	}
}

func TestRecalculate(t *testing.T) {
	s := &StudentStat{
		TotalQuizzesAttempted: 3,
		TotalScore:            230,
		CorrectAnswers:        8,
		TotalQuestions:        10,
		TotalTimeTaken:        100,
	}
	s.Recalculate()
	if s.AverageScore != 76.67 {
		t.Errorf("Expected averageScore 76.67, got %v", s.AverageScore)
	}
	if s.Accuracy != 80 {
		t.Errorf("Expected accuracy 80, got %v", s.Accuracy)
	}
	if s.AverageTimePerQuiz != 33.33 {
		t.Errorf("Expected averageTimePerQuiz 33.33, got %v", s.AverageTimePerQuiz)
	}

	var zero StudentStat
	zero.Recalculate()
	if zero.AverageScore != 0 || zero.Accuracy != 0 || zero.AverageTimePerQuiz != 0 {
		t.Errorf("Expected zeroes with no attempts, got %+v", zero)
	}
}

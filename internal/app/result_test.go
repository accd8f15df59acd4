package app_test

import (
	"testing"
	"time"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

func TestPercentageRoundsHalfUp(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{0, 1, 0},
		{3, 3, 100},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := app.Percentage(c.score, c.total); got != c.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", c.score, c.total, got, c.want)
		}
	}
}

func tenQuestionQuiz() domain.Quiz {
	questions := make([]domain.Question, 10)
	for i := range questions {
		questions[i] = domain.Question{
			ID:                 "q",
			QuestionText:       "Pick",
			Options:            []string{"right", "wrong"},
			CorrectAnswerIndex: 0,
		}
	}
	return domain.Quiz{ID: "quiz-1", Title: "Tiers", Questions: questions}
}

func TestSummarizeMessageTiers(t *testing.T) {
	quiz := tenQuestionQuiz()
	cases := []struct {
		score int
		want  string
	}{
		{9, "Outstanding!"},
		{8, "Excellent work!"},
		{7, "Well done!"},
		{6, "Good effort!"},
		{5, "Keep practicing!"},
	}
	for _, c := range cases {
		summary := app.Summarize(domain.QuizResult{QuizID: quiz.ID, Score: c.score, Total: 10}, quiz)
		if summary.Message != c.want {
			t.Fatalf("score %d: expected %q, got %q", c.score, c.want, summary.Message)
		}
	}
}

func TestSummarizeBreakdown(t *testing.T) {
	quiz := domain.Quiz{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []domain.Question{
			{QuestionText: "Capital of France?", Options: []string{"London", "Paris"}, CorrectAnswerIndex: 1},
			{QuestionText: "Capital of Spain?", Options: []string{"Madrid", "Lisbon"}, CorrectAnswerIndex: 0},
		},
	}
	result := domain.QuizResult{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		Answers:   []int{1, domain.UnansweredSentinel},
		Score:     1,
		Total:     2,
		CreatedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	summary := app.Summarize(result, quiz)
	if summary.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d%%", summary.Percentage)
	}
	if len(summary.Breakdown) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(summary.Breakdown))
	}

	first := summary.Breakdown[0]
	if !first.Correct || first.YourAnswer != "Paris" || first.CorrectAnswer != "Paris" {
		t.Fatalf("unexpected first review: %+v", first)
	}

	second := summary.Breakdown[1]
	if second.Correct || second.YourAnswer != app.NoAnswerLabel || second.CorrectAnswer != "Madrid" {
		t.Fatalf("unexpected second review: %+v", second)
	}
}

func TestAverageScorePercent(t *testing.T) {
	if got := app.AverageScorePercent(nil); got != 0 {
		t.Fatalf("expected 0 for no results, got %d", got)
	}
	results := []domain.QuizResult{
		{Score: 1, Total: 2},
		{Score: 3, Total: 3},
	}
	// mean(0.5, 1.0) = 0.75
	if got := app.AverageScorePercent(results); got != 75 {
		t.Fatalf("expected 75, got %d", got)
	}
}

package app

import (
	"context"
	"math"
	"time"

	"quizhub/internal/domain"
)

// ResultService owns the append-only results collection.
type ResultService struct {
	store CollectionStore
}

func NewResultService(store CollectionStore) *ResultService {
	return &ResultService{store: store}
}

// Append adds a finished result to the results collection.
func (s *ResultService) Append(ctx context.Context, result domain.QuizResult) error {
	results, err := readCollection[domain.QuizResult](ctx, s.store, CollectionResults)
	if err != nil {
		return err
	}
	results = append(results, result)
	return writeCollection(ctx, s.store, CollectionResults, results)
}

// ListByUser returns a user's results in insertion order.
func (s *ResultService) ListByUser(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	results, err := readCollection[domain.QuizResult](ctx, s.store, CollectionResults)
	if err != nil {
		return nil, err
	}
	mine := make([]domain.QuizResult, 0, len(results))
	for _, r := range results {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// QuestionReview pairs one question with the answer given for it.
type QuestionReview struct {
	QuestionText  string `json:"questionText"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// ResultSummary is the presentation form of a result: an integer percentage,
// a qualitative message and a per-question breakdown.
type ResultSummary struct {
	QuizID     string           `json:"quizId"`
	QuizTitle  string           `json:"quizTitle"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage int              `json:"percentage"`
	Message    string           `json:"message"`
	Breakdown  []QuestionReview `json:"breakdown"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// NoAnswerLabel is displayed for questions stored with the unanswered sentinel.
const NoAnswerLabel = "No answer"

// Summarize derives the displayed result from a persisted result and its quiz.
// Percentage is rounded half up, so 2/3 reads as 67%.
func Summarize(result domain.QuizResult, quiz domain.Quiz) ResultSummary {
	breakdown := make([]QuestionReview, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		answer := domain.UnansweredSentinel
		if i < len(result.Answers) {
			answer = result.Answers[i]
		}
		yours := NoAnswerLabel
		if answer >= 0 && answer < len(question.Options) {
			yours = question.Options[answer]
		}
		breakdown = append(breakdown, QuestionReview{
			QuestionText:  question.QuestionText,
			YourAnswer:    yours,
			CorrectAnswer: question.Options[question.CorrectAnswerIndex],
			Correct:       answer == question.CorrectAnswerIndex,
		})
	}

	percentage := Percentage(result.Score, result.Total)
	return ResultSummary{
		QuizID:     result.QuizID,
		QuizTitle:  result.QuizTitle,
		Score:      result.Score,
		Total:      result.Total,
		Percentage: percentage,
		Message:    scoreMessage(percentage),
		Breakdown:  breakdown,
		CreatedAt:  result.CreatedAt,
	}
}

// Percentage returns round-half-up(100 * score / total), or 0 for an empty total.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

func scoreMessage(percentage int) string {
	switch {
	case percentage >= 90:
		return "Outstanding!"
	case percentage >= 80:
		return "Excellent work!"
	case percentage >= 70:
		return "Well done!"
	case percentage >= 60:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

// AverageScorePercent is the profile-page stat: the mean of per-result score
// ratios, rounded half up. Zero when there are no results.
func AverageScorePercent(results []domain.QuizResult) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		if r.Total > 0 {
			sum += float64(r.Score) / float64(r.Total)
		}
	}
	return int(math.Round(sum / float64(len(results)) * 100))
}

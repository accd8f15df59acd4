package domain

import "time"

// GuestUserID is recorded on results submitted without a logged-in user.
const GuestUserID = "guest"

// UnansweredSentinel marks a skipped question in a persisted result's answers.
// Live attempts use the Answer variant instead; the sentinel appears only at the
// persistence boundary.
const UnansweredSentinel = -1

// Option count bounds for a question.
const (
	MinOptions = 2
	MaxOptions = 6
)

// User is an account in the users collection. Immutable after registration.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question is a single multiple-choice question. CorrectAnswerIndex always
// indexes into Options; Options holds between MinOptions and MaxOptions entries.
type Question struct {
	ID                 string   `json:"id"`
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Quiz is a published quiz in the catalog. Quizzes are append-only: once
// created they are never edited or deleted.
type Quiz struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	CreatedBy         string     `json:"createdBy"`
	CreatedByUsername string     `json:"createdByUsername"`
	Questions         []Question `json:"questions"`
	CreatedAt         time.Time  `json:"createdAt"`
	IsPublic          bool       `json:"isPublic"`
}

// QuizDraft is the authoring input to catalog creation, before ids and
// timestamps are assigned.
type QuizDraft struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	CreatedBy         string          `json:"createdBy"`
	CreatedByUsername string          `json:"createdByUsername"`
	Questions         []QuestionDraft `json:"questions"`
}

// QuestionDraft is a question as authored, without an id.
type QuestionDraft struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Answer records the selection state for one question of a live attempt.
// The zero value means unanswered.
type Answer struct {
	Index    int
	Answered bool
}

// QuizResult is the persisted outcome of a submitted attempt. Answers carries
// UnansweredSentinel for questions that were never answered.
type QuizResult struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quizId"`
	QuizTitle string    `json:"quizTitle"`
	UserID    string    `json:"userId"`
	Answers   []int     `json:"answers"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

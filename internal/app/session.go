package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// AttemptStore abstracts how live attempts are kept (in-memory, Redis-backed).
// Attempts are transient: they never outlive the process and are dropped once
// submitted or abandoned.
type AttemptStore interface {
	Put(attempt *Attempt)
	Get(attemptID string) (*Attempt, bool)
	Delete(attemptID string)
}

// ResultAppender persists finished results. Implemented by ResultService.
type ResultAppender interface {
	Append(ctx context.Context, result domain.QuizResult) error
}

// QuizFinder resolves quiz ids when an attempt starts. Implemented by
// CatalogService; the not-found failure belongs to the catalog, not here.
type QuizFinder interface {
	FindByID(ctx context.Context, id string) (domain.Quiz, error)
}

// SessionService runs quiz attempts: answer selection, question navigation,
// elapsed time and final submission/scoring.
type SessionService struct {
	catalog  QuizFinder
	attempts AttemptStore
	results  ResultAppender
	clock    func() time.Time
	newID    func() string
}

func NewSessionService(catalog QuizFinder, attempts AttemptStore, results ResultAppender) *SessionService {
	return &SessionService{
		catalog:  catalog,
		attempts: attempts,
		results:  results,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// NewSessionServiceWithClock is test-only for deterministic timestamps and ids.
func NewSessionServiceWithClock(catalog QuizFinder, attempts AttemptStore, results ResultAppender, clock func() time.Time, newID func() string) *SessionService {
	return &SessionService{catalog: catalog, attempts: attempts, results: results, clock: clock, newID: newID}
}

// Start fetches the quiz and opens a fresh attempt: every question unanswered,
// cursor on the first question. An empty userID records the guest sentinel at
// submission.
func (s *SessionService) Start(ctx context.Context, quizID, userID string) (AttemptView, error) {
	quiz, err := s.catalog.FindByID(ctx, quizID)
	if err != nil {
		return AttemptView{}, err
	}
	attempt := newAttempt(s.newID(), quiz, userID, s.clock)
	s.attempts.Put(attempt)
	return attempt.View(), nil
}

// SelectAnswer records an option for the currently viewed question,
// overwriting any earlier pick.
func (s *SessionService) SelectAnswer(attemptID string, optionIndex int) (AttemptView, error) {
	attempt, ok := s.attempts.Get(attemptID)
	if !ok {
		return AttemptView{}, domain.ErrAttemptNotFound
	}
	if err := attempt.selectAnswer(optionIndex); err != nil {
		return AttemptView{}, err
	}
	return attempt.View(), nil
}

// Next advances the cursor; a no-op on the last question.
func (s *SessionService) Next(attemptID string) (AttemptView, error) {
	attempt, ok := s.attempts.Get(attemptID)
	if !ok {
		return AttemptView{}, domain.ErrAttemptNotFound
	}
	attempt.next()
	return attempt.View(), nil
}

// Previous moves the cursor back; a no-op on the first question.
func (s *SessionService) Previous(attemptID string) (AttemptView, error) {
	attempt, ok := s.attempts.Get(attemptID)
	if !ok {
		return AttemptView{}, domain.ErrAttemptNotFound
	}
	attempt.previous()
	return attempt.View(), nil
}

// Elapsed reports time since the attempt started, clamped at zero.
func (s *SessionService) Elapsed(attemptID string) (time.Duration, error) {
	attempt, ok := s.attempts.Get(attemptID)
	if !ok {
		return 0, domain.ErrAttemptNotFound
	}
	return attempt.elapsed(), nil
}

// Submit scores the attempt, persists the result and drops the live attempt.
// The gate checks only the currently viewed question: questions skipped via
// back-navigation keep their unanswered marker and score as wrong. The attempt
// turns terminal only once the result write succeeds, so a failed write leaves
// it open for a retry. Returns the result together with the quiz for the
// result-view handoff.
func (s *SessionService) Submit(ctx context.Context, attemptID string) (domain.QuizResult, domain.Quiz, error) {
	attempt, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.QuizResult{}, domain.Quiz{}, domain.ErrAttemptNotFound
	}
	result, err := attempt.finalize(s.newID(), s.clock())
	if err != nil {
		return domain.QuizResult{}, domain.Quiz{}, err
	}
	if err := s.results.Append(ctx, result); err != nil {
		return domain.QuizResult{}, domain.Quiz{}, err
	}
	attempt.markSubmitted()
	s.attempts.Delete(attemptID)
	return result, attempt.quiz, nil
}

// NewAttempt is exported for infrastructure layers that need to seed attempts.
func NewAttempt(id string, quiz domain.Quiz, userID string) *Attempt {
	return newAttempt(id, quiz, userID, time.Now)
}

// Attempt is a live, unpersisted run through a quiz. All state transitions go
// through its methods; the mutex keeps transports from racing the ticker.
type Attempt struct {
	id     string
	quiz   domain.Quiz
	userID string
	now    func() time.Time

	mu        sync.Mutex
	answers   []domain.Answer
	current   int
	startTime time.Time
	completed bool
}

func newAttempt(id string, quiz domain.Quiz, userID string, now func() time.Time) *Attempt {
	return &Attempt{
		id:        id,
		quiz:      quiz,
		userID:    userID,
		now:       now,
		answers:   make([]domain.Answer, len(quiz.Questions)),
		startTime: now(),
	}
}

// ID returns the attempt id.
func (a *Attempt) ID() string { return a.id }

// QuestionView is the client-facing shape of a question; the correct answer
// index never leaves the server during an attempt.
type QuestionView struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// AttemptView is a snapshot of attempt state for transports. Answers uses the
// unanswered sentinel for display only; the live attempt keeps the tagged form.
type AttemptView struct {
	AttemptID       string       `json:"attemptId"`
	QuizID          string       `json:"quizId"`
	QuizTitle       string       `json:"quizTitle"`
	CurrentQuestion int          `json:"currentQuestion"`
	TotalQuestions  int          `json:"totalQuestions"`
	Question        QuestionView `json:"question"`
	Answers         []int        `json:"answers"`
	IsCompleted     bool         `json:"isCompleted"`
}

// View snapshots the attempt.
func (a *Attempt) View() AttemptView {
	a.mu.Lock()
	defer a.mu.Unlock()

	question := a.quiz.Questions[a.current]
	answers := make([]int, len(a.answers))
	for i, ans := range a.answers {
		if ans.Answered {
			answers[i] = ans.Index
		} else {
			answers[i] = domain.UnansweredSentinel
		}
	}
	return AttemptView{
		AttemptID:       a.id,
		QuizID:          a.quiz.ID,
		QuizTitle:       a.quiz.Title,
		CurrentQuestion: a.current,
		TotalQuestions:  len(a.quiz.Questions),
		Question: QuestionView{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Options:      question.Options,
		},
		Answers:     answers,
		IsCompleted: a.completed,
	}
}

func (a *Attempt) selectAnswer(optionIndex int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.completed {
		return domain.ErrAttemptCompleted
	}
	if optionIndex < 0 || optionIndex >= len(a.quiz.Questions[a.current].Options) {
		return domain.ErrInvalidArgument
	}
	a.answers[a.current] = domain.Answer{Index: optionIndex, Answered: true}
	return nil
}

func (a *Attempt) next() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.completed {
		return
	}
	if a.current < len(a.quiz.Questions)-1 {
		a.current++
	}
}

func (a *Attempt) previous() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.completed {
		return
	}
	if a.current > 0 {
		a.current--
	}
}

func (a *Attempt) elapsed() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.now().Sub(a.startTime)
	if d < 0 {
		// Clock skew: never report negative elapsed time.
		return 0
	}
	return d
}

// finalize scores the attempt and builds its result. It does not mark the
// attempt submitted; that transition belongs to the caller, after the result
// has been persisted. Scoring is strict index equality; unanswered entries
// never match and are persisted as the -1 sentinel.
func (a *Attempt) finalize(resultID string, now time.Time) (domain.QuizResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.completed {
		return domain.QuizResult{}, domain.ErrAttemptCompleted
	}
	if !a.answers[a.current].Answered {
		return domain.QuizResult{}, domain.ErrCurrentUnanswered
	}

	score := 0
	answers := make([]int, len(a.answers))
	for i, ans := range a.answers {
		if !ans.Answered {
			answers[i] = domain.UnansweredSentinel
			continue
		}
		answers[i] = ans.Index
		if ans.Index == a.quiz.Questions[i].CorrectAnswerIndex {
			score++
		}
	}

	userID := a.userID
	if userID == "" {
		userID = domain.GuestUserID
	}

	return domain.QuizResult{
		ID:        resultID,
		QuizID:    a.quiz.ID,
		QuizTitle: a.quiz.Title,
		UserID:    userID,
		Answers:   answers,
		Score:     score,
		Total:     len(a.quiz.Questions),
		CreatedAt: now,
	}, nil
}

func (a *Attempt) markSubmitted() {
	a.mu.Lock()
	a.completed = true
	a.mu.Unlock()
}

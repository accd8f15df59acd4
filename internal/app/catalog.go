package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// QuizCollection provides load/replace access to the quiz catalog. The redis
// and memory infra packages implement it with a TTL read-through cache.
type QuizCollection interface {
	Load(ctx context.Context) ([]domain.Quiz, error)
	Replace(ctx context.Context, quizzes []domain.Quiz) error
}

// CatalogService owns the published quiz catalog: create, list, lookup and
// text search. The catalog is append-only; quizzes are never edited or deleted.
type CatalogService struct {
	quizzes QuizCollection
	clock   func() time.Time
	newID   func() string
}

func NewCatalogService(quizzes QuizCollection) *CatalogService {
	return &CatalogService{quizzes: quizzes, clock: time.Now, newID: uuid.NewString}
}

// NewCatalogServiceWithClock is test-only for deterministic timestamps and ids.
func NewCatalogServiceWithClock(quizzes QuizCollection, clock func() time.Time, newID func() string) *CatalogService {
	return &CatalogService{quizzes: quizzes, clock: clock, newID: newID}
}

// Create validates a draft, stamps ids and creation time, and appends the quiz
// to the catalog. Validation runs entirely before the write, so a rejected
// draft leaves the collection untouched.
func (s *CatalogService) Create(ctx context.Context, draft domain.QuizDraft) (domain.Quiz, error) {
	quiz, err := s.buildQuiz(draft)
	if err != nil {
		return domain.Quiz{}, err
	}

	quizzes, err := s.quizzes.Load(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	quizzes = append(quizzes, quiz)
	if err := s.quizzes.Replace(ctx, quizzes); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// List returns all quizzes in persisted insertion order.
func (s *CatalogService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.Load(ctx)
}

// FindByID returns the quiz with the given id, or domain.ErrQuizNotFound.
func (s *CatalogService) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	quizzes, err := s.quizzes.Load(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	for _, quiz := range quizzes {
		if quiz.ID == id {
			return quiz, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// Search filters the catalog by a case-insensitive substring match against
// title, description or creator display name. An empty query returns the full
// catalog, in list order.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.Load(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return quizzes, nil
	}

	needle := strings.ToLower(query)
	matches := make([]domain.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		if strings.Contains(strings.ToLower(quiz.Title), needle) ||
			strings.Contains(strings.ToLower(quiz.Description), needle) ||
			strings.Contains(strings.ToLower(quiz.CreatedByUsername), needle) {
			matches = append(matches, quiz)
		}
	}
	return matches, nil
}

// ListByCreator returns the quizzes authored by a user, in list order.
func (s *CatalogService) ListByCreator(ctx context.Context, userID string) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.Load(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]domain.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		if quiz.CreatedBy == userID {
			mine = append(mine, quiz)
		}
	}
	return mine, nil
}

// Import appends externally authored quizzes (already carrying ids) to the
// catalog, skipping ids that are present. Returns the number imported. Quizzes
// violating the question invariants are rejected wholesale before any write.
func (s *CatalogService) Import(ctx context.Context, quizzes []domain.Quiz) (int, error) {
	for _, quiz := range quizzes {
		if err := checkQuiz(quiz); err != nil {
			return 0, fmt.Errorf("%w: quiz %q", err, quiz.ID)
		}
	}

	existing, err := s.quizzes.Load(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, quiz := range existing {
		seen[quiz.ID] = true
	}

	imported := 0
	for _, quiz := range quizzes {
		if seen[quiz.ID] {
			continue
		}
		seen[quiz.ID] = true
		existing = append(existing, quiz)
		imported++
	}
	if imported == 0 {
		return 0, nil
	}
	if err := s.quizzes.Replace(ctx, existing); err != nil {
		return 0, err
	}
	return imported, nil
}

func checkQuiz(quiz domain.Quiz) error {
	if quiz.ID == "" || strings.TrimSpace(quiz.Title) == "" || strings.TrimSpace(quiz.Description) == "" {
		return domain.ErrValidation
	}
	if len(quiz.Questions) == 0 {
		return domain.ErrValidation
	}
	for _, q := range quiz.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return domain.ErrValidation
		}
		if len(q.Options) < domain.MinOptions || len(q.Options) > domain.MaxOptions {
			return domain.ErrValidation
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return domain.ErrValidation
			}
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return domain.ErrValidation
		}
	}
	return nil
}

func (s *CatalogService) buildQuiz(draft domain.QuizDraft) (domain.Quiz, error) {
	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	if title == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if description == "" {
		return domain.Quiz{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if len(draft.Questions) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: at least one question is required", domain.ErrValidation)
	}

	questions := make([]domain.Question, 0, len(draft.Questions))
	for i, q := range draft.Questions {
		built, err := buildQuestion(q, s.newID())
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("%w: question %d is incomplete", err, i+1)
		}
		questions = append(questions, built)
	}

	return domain.Quiz{
		ID:                s.newID(),
		Title:             title,
		Description:       description,
		CreatedBy:         draft.CreatedBy,
		CreatedByUsername: draft.CreatedByUsername,
		Questions:         questions,
		CreatedAt:         s.clock(),
		IsPublic:          true,
	}, nil
}

func buildQuestion(draft domain.QuestionDraft, id string) (domain.Question, error) {
	text := strings.TrimSpace(draft.QuestionText)
	if text == "" {
		return domain.Question{}, domain.ErrValidation
	}
	if len(draft.Options) < domain.MinOptions || len(draft.Options) > domain.MaxOptions {
		return domain.Question{}, domain.ErrValidation
	}
	options := make([]string, 0, len(draft.Options))
	for _, opt := range draft.Options {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" {
			return domain.Question{}, domain.ErrValidation
		}
		options = append(options, trimmed)
	}
	if draft.CorrectAnswerIndex < 0 || draft.CorrectAnswerIndex >= len(options) {
		return domain.Question{}, domain.ErrValidation
	}
	return domain.Question{
		ID:                 id,
		QuestionText:       text,
		Options:            options,
		CorrectAnswerIndex: draft.CorrectAnswerIndex,
	}, nil
}

package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id is absent from the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when no live attempt exists for an id.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrUserNotFound indicates the user id is absent from the users collection.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation covers malformed quiz drafts and registration input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidArgument is returned for an answer index outside the current
	// question's option range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAttemptCompleted is returned when mutating a submitted attempt.
	ErrAttemptCompleted = errors.New("attempt already submitted")
	// ErrCurrentUnanswered blocks submission while the viewed question has no answer.
	ErrCurrentUnanswered = errors.New("current question not answered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")
)

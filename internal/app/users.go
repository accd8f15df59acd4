package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/domain"
)

// storedUser is the users-collection record: the public user plus the
// credential field. Plain storage matches the single-device design; password
// hashing is out of scope.
type storedUser struct {
	domain.User
	Password string `json:"password"`
}

// UserService owns registration, login and the first-run bootstrap of the
// users collection.
type UserService struct {
	store CollectionStore
	clock func() time.Time
	newID func() string
}

func NewUserService(store CollectionStore) *UserService {
	return &UserService{store: store, clock: time.Now, newID: uuid.NewString}
}

// NewUserServiceWithClock is test-only for deterministic timestamps and ids.
func NewUserServiceWithClock(store CollectionStore, clock func() time.Time, newID func() string) *UserService {
	return &UserService{store: store, clock: clock, newID: newID}
}

// Bootstrap seeds the demo account when the users collection is empty.
// A non-empty collection is left untouched.
func (s *UserService) Bootstrap(ctx context.Context) error {
	users, err := readCollection[storedUser](ctx, s.store, CollectionUsers)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	demo := storedUser{
		User: domain.User{
			ID:        "demo-user",
			Username:  "Quiz Master",
			Email:     "demo@example.com",
			CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		Password: "demo123",
	}
	return writeCollection(ctx, s.store, CollectionUsers, []storedUser{demo})
}

// Register creates a new account. Email uniqueness is the only constraint.
func (s *UserService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	users, err := readCollection[storedUser](ctx, s.store, CollectionUsers)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return domain.User{}, domain.ErrUserExists
		}
	}

	record := storedUser{
		User: domain.User{
			ID:        s.newID(),
			Username:  username,
			Email:     email,
			CreatedAt: s.clock(),
		},
		Password: password,
	}
	users = append(users, record)
	if err := writeCollection(ctx, s.store, CollectionUsers, users); err != nil {
		return domain.User{}, err
	}
	return record.User, nil
}

// Login checks credentials and returns the matching user.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	users, err := readCollection[storedUser](ctx, s.store, CollectionUsers)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			return u.User, nil
		}
	}
	return domain.User{}, domain.ErrInvalidCredentials
}

// FindByID returns the public form of a stored user.
func (s *UserService) FindByID(ctx context.Context, id string) (domain.User, error) {
	users, err := readCollection[storedUser](ctx, s.store, CollectionUsers)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.User, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

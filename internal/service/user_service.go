package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

var emailPattern = regexp.MustCompile(`^(.+)@(.+)$`)

const maxEmailLength = 30

// UserService coordinates registration and login flows. Hashing and
// uniqueness enforcement live in the repository; this layer only orders the
// checks.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service. The dispatcher may be nil.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// RegisterUser creates a new account. Syntactic checks run before the
// uniqueness pre-check, so a malformed email never reports as a duplicate.
// The count is only a pre-check; the insert's unique constraint closes the
// race between concurrent registrations.
func (s *UserService) RegisterUser(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format", nil)
	}
	if len(email) > maxEmailLength {
		return nil, apperrors.NewValidationError("email must not exceed 30 characters", nil)
	}
	if password == "" {
		return nil, apperrors.NewValidationError("password must not be empty", nil)
	}

	count, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewAuthError("email already in use")
	}

	id, err := s.users.Create(ctx, firstName, lastName, email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Email: user.Email,
		},
	})
	return user, nil
}

// ValidateUser authenticates login credentials. An unknown email and a wrong
// password surface as the same failure.
func (s *UserService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.users.FindByEmailAndPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

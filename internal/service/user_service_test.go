package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// fakeUserRepo mimics the credential store contract: emails are stored
// normalized, every failure is a domain auth error, and lookups are case
// insensitive.
type fakeUserRepo struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*domain.User
	countCalls  int
	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, firstName, lastName, email, password string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++

	normalized := strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == normalized {
			return 0, apperrors.NewAuthError("email already in use")
		}
	}

	r.nextID++
	r.users[r.nextID] = &domain.User{
		ID:           r.nextID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        normalized,
		PasswordHash: "hashed:" + password,
	}
	return r.nextID, nil
}

func (r *fakeUserRepo) CountByEmail(_ context.Context, email string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++

	count := 0
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) FindByEmailAndPassword(_ context.Context, email, password string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == strings.ToLower(email) && u.PasswordHash == "hashed:"+password {
			return u, nil
		}
	}
	return nil, apperrors.NewAuthError("invalid email/password")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewAuthError("user not found")
}

func TestRegisterUserSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, nil)

	user, err := svc.RegisterUser(context.Background(), "John", "Doe", "John.Doe@Example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "john.doe@example.com", user.Email)
	assert.Equal(t, "John", user.FirstName)
	assert.Equal(t, 1, repo.createCalls)
}

func TestRegisterUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "malformed email", email: "invalidEmail", password: "password"},
		{name: "email too long", email: strings.Repeat("a", 25) + "@test.com", password: "password"},
		{name: "empty password", email: "john@example.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := service.NewUserService(repo, nil)

			_, err := svc.RegisterUser(context.Background(), "John", "Doe", tt.email, tt.password)
			require.Error(t, err)

			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
			// Syntactic checks run before the uniqueness check and before
			// anything reaches storage.
			assert.Zero(t, repo.countCalls)
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, nil)

	_, err := svc.RegisterUser(context.Background(), "John", "Doe", "john@example.com", "password")
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "Jane", "Doe", "JOHN@EXAMPLE.COM", "other")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "AUTH_FAILED", domainErr.Code)
	assert.Equal(t, "email already in use", domainErr.Message)
	assert.Equal(t, 1, repo.createCalls)
}

func TestRegisterUserDuplicateLosesRaceAtInsert(t *testing.T) {
	// Simulates the pre-check passing and the insert hitting the unique
	// constraint: the caller still sees the email-in-use error.
	repo := newFakeUserRepo()
	_ = service.NewUserService(repo, nil)

	_, err := repo.Create(context.Background(), "John", "Doe", "john@example.com", "password")
	require.NoError(t, err)

	racingRepo := &racingUserRepo{fakeUserRepo: repo}
	racingSvc := service.NewUserService(racingRepo, nil)

	_, err = racingSvc.RegisterUser(context.Background(), "Jane", "Doe", "john@example.com", "other")
	require.Error(t, err)
	assert.Equal(t, "email already in use", apperrors.ToDomainError(err).Message)
}

// racingUserRepo reports zero matches from the pre-check while the underlying
// store already holds the email.
type racingUserRepo struct {
	*fakeUserRepo
}

func (r *racingUserRepo) CountByEmail(context.Context, string) (int, error) {
	return 0, nil
}

func TestValidateUserIndistinguishableFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, nil)

	_, err := svc.RegisterUser(context.Background(), "John", "Doe", "john@example.com", "password")
	require.NoError(t, err)

	_, wrongPassword := svc.ValidateUser(context.Background(), "john@example.com", "nope")
	_, unknownEmail := svc.ValidateUser(context.Background(), "ghost@example.com", "password")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Code, apperrors.ToDomainError(unknownEmail).Code)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Message, apperrors.ToDomainError(unknownEmail).Message)
}

func TestValidateUserSuccessIsCaseInsensitive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, nil)

	registered, err := svc.RegisterUser(context.Background(), "John", "Doe", "john@example.com", "password")
	require.NoError(t, err)

	user, err := svc.ValidateUser(context.Background(), "JOHN@example.COM", "password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

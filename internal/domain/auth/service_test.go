package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/weather-helloworld/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	svc := newTestService()

	registered, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "  Ada   Lovelace ",
		Email:    "User@Example.com",
		Password: "pass12",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.Token)
	require.Equal(t, "user@example.com", registered.User.Email)
	require.Equal(t, "Ada Lovelace", registered.User.Name)
	require.NotZero(t, registered.User.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass12",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, registered.User.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, claims.UserID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, "Ada Lovelace", refreshed.User.Name)

	profile, err := svc.Profile(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", profile.Email)
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "One",
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Name:     "Two",
		Email:    "USER@example.com",
		Password: "pass12345",
	})
	require.True(t, apperrors.IsCode(err, "email_exists"))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService()

	cases := []RegisterRequest{
		{Name: "", Email: "a@example.com", Password: "secret1"},
		{Name: "Ann", Email: "not-an-email", Password: "secret1"},
		{Name: "Ann", Email: "a@example.com", Password: "short"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.True(t, apperrors.IsCode(err, "invalid_input"), "request %+v", req)
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestService_LoginRejectsShortPasswordBeforeLookup(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour, RefreshTokenTTL: time.Hour}, repo, newTestLogger())
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "abc"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.ErrorContains(t, err, "at least 6 characters")

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "abc"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_RegisterHashesWithCost12(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour, RefreshTokenTTL: time.Hour}, repo, newTestLogger())
	resp, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	stored, ok, err := repo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.True(t, ok)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	require.Equal(t, 12, cost)
	require.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestService_TokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newTestService()
	resp, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = svc.ValidateToken(context.Background(), "garbage")
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func newTestService() Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, newMemoryRepo(), newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, name, email, passwordHash string) (User, error) {
	m.seq++
	user := User{
		ID:           m.seq,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

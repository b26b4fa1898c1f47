package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fitclub/internal/auth"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	repo.On("EmailExists", mock.Anything, "aida@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "Aida", "aida@example.com", mock.Anything, "member").
		Return(&User{ID: 1, Name: "Aida", Email: "aida@example.com", Role: "member"}, nil)

	u, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Aida", Email: "aida@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// The stored hash must verify against the original password.
	hash := repo.Calls[1].Arguments.String(3)
	assert.True(t, auth.CheckPassword(hash, "password123"))
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	repo.On("EmailExists", mock.Anything, "aida@example.com").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Aida", Email: "aida@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "aida@example.com").
		Return(&User{ID: 1, Email: "aida@example.com", PasswordHash: hash, Role: "member"}, nil)

	u, access, refresh, err := svc.Login(context.Background(), LoginRequest{
		Email: "aida@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	hash, _ := auth.HashPassword("password123")
	repo.On("FindByEmail", mock.Anything, "aida@example.com").
		Return(&User{ID: 1, Email: "aida@example.com", PasswordHash: hash}, nil)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "aida@example.com", Password: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, errors.New("sql: no rows in result set"))

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "ghost@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	refresh, err := auth.GenerateRefreshToken(1, "aida@example.com", "member", testSecret)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, 1).
		Return(&User{ID: 1, Email: "aida@example.com", Role: "member"}, nil)

	access, u, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Equal(t, 1, u.ID)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	access, err := auth.GenerateAccessToken(1, "aida@example.com", "member", testSecret)
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, testSecret)

	repo.On("FindByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package gym

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateGym(ctx context.Context, name, location, timezone string) (*Gym, error) {
	args := m.Called(ctx, name, location, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepo) GetAllGyms(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepo) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func TestCreateGym_DefaultsTimezone(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, NewMemoryCache(time.Minute))

	repo.On("CreateGym", mock.Anything, "Downtown", "Main St 1", "UTC").
		Return(&Gym{ID: 1, Name: "Downtown", Location: "Main St 1", Timezone: "UTC"}, nil)

	g, err := svc.CreateGym(context.Background(), CreateGymRequest{Name: "Downtown", Location: "Main St 1"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", g.Timezone)
}

func TestCreateGym_RejectsBadTimezone(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, NewMemoryCache(time.Minute))

	_, err := svc.CreateGym(context.Background(), CreateGymRequest{
		Name: "Downtown", Location: "Main St 1", Timezone: "Mars/Olympus",
	})
	assert.ErrorIs(t, err, ErrInvalidTimezone)
	repo.AssertNotCalled(t, "CreateGym", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetGymByID_CachesResult(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, NewMemoryCache(time.Minute))

	repo.On("GetGymByID", mock.Anything, 1).
		Return(&Gym{ID: 1, Name: "Downtown", Timezone: "Asia/Almaty"}, nil).
		Once()

	first, err := svc.GetGymByID(context.Background(), 1)
	require.NoError(t, err)

	// Second read is served from the cache, not the repository.
	second, err := svc.GetGymByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	repo.AssertNumberOfCalls(t, "GetGymByID", 1)
}

func TestGetGymByID_NotFound(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, NewMemoryCache(time.Minute))

	repo.On("GetGymByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.GetGymByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestLocation(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, NewMemoryCache(time.Minute))

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1, Timezone: "Asia/Almaty"}, nil)
	repo.On("GetGymByID", mock.Anything, 2).Return(&Gym{ID: 2, Timezone: ""}, nil)
	repo.On("GetGymByID", mock.Anything, 3).Return(&Gym{ID: 3, Timezone: "Not/AZone"}, nil)

	loc, err := svc.Location(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Almaty", loc.String())

	// Empty and unknown timezones both fall back to UTC.
	loc, err = svc.Location(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = svc.Location(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

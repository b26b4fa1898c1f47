package gym

import (
	"context"
	"errors"
	"time"
)

var (
	ErrGymNotFound     = errors.New("gym not found")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	Location(ctx context.Context, gymID int) (*time.Location, error)
}

type service struct {
	repo  Repository
	cache DetailCache
}

func NewService(repo Repository, cache DetailCache) Service {
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, ErrInvalidTimezone
	}

	return s.repo.CreateGym(ctx, req.Name, req.Location, tz)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}

	s.cache.Set(ctx, id, gym)
	return gym, nil
}

// Location resolves the gym's IANA timezone for schedule math. Unknown or
// empty timezones fall back to UTC rather than failing the request.
func (s *service) Location(ctx context.Context, gymID int) (*time.Location, error) {
	gym, err := s.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if gym.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(gym.Timezone)
	if err != nil {
		return time.UTC, nil
	}
	return loc, nil
}

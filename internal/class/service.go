package class

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/gym"
	"fitclub/internal/schedule"
)

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrClassInvalid     = errors.New("invalid class")
	ErrInvalidDayOffset = errors.New("day offset must be between 0 and 6")
)

type Service interface {
	CreateClass(ctx context.Context, gymID int, req CreateClassRequest) (*Class, error)
	GetClasses(ctx context.Context, gymID int, from, to time.Time) ([]Class, error)
	GetSchedule(ctx context.Context, gymID, dayOffset, userID int) (*DaySchedule, error)
	GetSession(ctx context.Context, classID, userID int) (*SessionView, error)
}

type service struct {
	repo       Repository
	gymService gym.Service
	now        func() time.Time
}

func NewService(repo Repository, gymService gym.Service) Service {
	return &service{
		repo:       repo,
		gymService: gymService,
		now:        time.Now,
	}
}

func (s *service) CreateClass(ctx context.Context, gymID int, req CreateClassRequest) (*Class, error) {
	if _, err := s.gymService.GetGymByID(ctx, gymID); err != nil {
		return nil, gym.ErrGymNotFound
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, ErrClassInvalid
	}

	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, ErrClassInvalid
	}

	if !endsAt.After(startsAt) {
		return nil, ErrClassInvalid
	}

	if req.Capacity <= 0 {
		return nil, ErrClassInvalid
	}

	return s.repo.CreateClass(ctx, gymID, req.Title, req.Type, req.Coach, startsAt, endsAt, req.Capacity)
}

func (s *service) GetClasses(ctx context.Context, gymID int, from, to time.Time) ([]Class, error) {
	if _, err := s.gymService.GetGymByID(ctx, gymID); err != nil {
		return nil, gym.ErrGymNotFound
	}

	return s.repo.GetClassesByGym(ctx, gymID, from, to)
}

// GetSchedule assembles the day's schedule for a gym: sessions bucketed to
// the requested local calendar day, grouped by activity type, each carrying
// its computed status and final bookability. Everything is derived from
// fresh reads; nothing is cached between calls.
func (s *service) GetSchedule(ctx context.Context, gymID, dayOffset, userID int) (*DaySchedule, error) {
	if dayOffset < 0 || dayOffset > schedule.MaxDayOffset {
		return nil, ErrInvalidDayOffset
	}

	g, err := s.gymService.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, gym.ErrGymNotFound
	}

	loc, err := s.gymService.Location(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	windowStart := schedule.DayStart(now, 0, loc)
	windowEnd := schedule.DayStart(now, schedule.MaxDayOffset+1, loc)

	classes, err := s.repo.GetClassesByGym(ctx, gymID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	sessions, err := s.snapshots(ctx, classes, userID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	daySessions := schedule.ForDay(sessions, dayOffset, now, loc)

	groups := schedule.GroupByType(daySessions)
	view := &DaySchedule{
		GymID:     gymID,
		DayOffset: dayOffset,
		Date:      schedule.DateKey(schedule.DayStart(now, dayOffset, loc), loc),
		Timezone:  g.Timezone,
		Groups:    make([]GroupView, 0, len(groups)),
	}

	for _, grp := range groups {
		gv := GroupView{Type: grp.Key, Sessions: make([]SessionView, 0, len(grp.Sessions))}
		for _, sess := range grp.Sessions {
			gv.Sessions = append(gv.Sessions, s.sessionView(sess, sessions, now, loc))
		}
		view.Groups = append(view.Groups, gv)
	}

	return view, nil
}

// GetSession returns the point-in-time view of a single class for a user,
// with the participant roster attached.
func (s *service) GetSession(ctx context.Context, classID, userID int) (*SessionView, error) {
	class, err := s.repo.GetClassByID(ctx, classID)
	if err != nil {
		return nil, ErrClassNotFound
	}

	loc, err := s.gymService.Location(ctx, class.GymID)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.CountActiveBookings(ctx, classID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipants(ctx, classID)
	if err != nil {
		return nil, err
	}

	isBooked := false
	for _, p := range participants {
		if p.UserID == userID {
			isBooked = true
			break
		}
	}

	sess := toSession(*class, booked, isBooked)
	sess.Participants = toParticipants(participants)

	now := s.now()

	// Duplicate-rule context: the user's booked sessions on the same local
	// date as this class.
	dayStart := schedule.DayStart(class.StartsAt.In(loc), 0, loc)
	userSessions, err := s.userSessions(ctx, userID, class.GymID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	view := s.sessionView(sess, userSessions, now, loc)
	return &view, nil
}

func (s *service) sessionView(sess schedule.Session, userSessions []schedule.Session, now time.Time, loc *time.Location) SessionView {
	status := schedule.Classify(now, sess.StartsAt, sess.EndsAt)
	return SessionView{
		Session:     sess,
		Status:      status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),
		Bookable:    status.Bookable() && schedule.CanBook(sess, userSessions, loc),
	}
}

// snapshots turns class rows into engine session snapshots with booked
// counts and the user's booking flags resolved in two batched queries.
func (s *service) snapshots(ctx context.Context, classes []Class, userID int, from, to time.Time) ([]schedule.Session, error) {
	ids := make([]int, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}

	counts, err := s.repo.CountActiveBookingsForClasses(ctx, ids)
	if err != nil {
		return nil, err
	}

	userBooked := map[int]bool{}
	if userID > 0 {
		userBooked, err = s.repo.GetUserBookedClassIDs(ctx, userID, from, to)
		if err != nil {
			return nil, err
		}
	}

	sessions := make([]schedule.Session, 0, len(classes))
	for _, c := range classes {
		sessions = append(sessions, toSession(c, counts[c.ID], userBooked[c.ID]))
	}
	return sessions, nil
}

func (s *service) userSessions(ctx context.Context, userID, gymID int, from, to time.Time) ([]schedule.Session, error) {
	if userID <= 0 {
		return nil, nil
	}

	classes, err := s.repo.GetClassesByGym(ctx, gymID, from, to)
	if err != nil {
		return nil, err
	}

	return s.snapshots(ctx, classes, userID, from, to)
}

func toSession(c Class, bookedCount int, isBooked bool) schedule.Session {
	return schedule.Session{
		ID:                  c.ID,
		Title:               c.Title,
		Type:                c.Type,
		Coach:               c.Coach,
		StartsAt:            c.StartsAt,
		EndsAt:              c.EndsAt,
		Capacity:            c.Capacity,
		CurrentParticipants: bookedCount,
		IsBooked:            isBooked,
		CanBook:             !isBooked,
	}
}

func toParticipants(ps []Participant) []schedule.Participant {
	out := make([]schedule.Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, schedule.Participant{ID: p.UserID, Name: p.Name})
	}
	return out
}

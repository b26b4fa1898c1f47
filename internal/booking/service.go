package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"fitclub/internal/class"
	"fitclub/internal/gym"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"
	"fitclub/internal/notification"
	"fitclub/internal/schedule"
	"fitclub/internal/subscription"
	"fitclub/internal/user"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClassCompleted  = errors.New("class has already finished")
	ErrClassFull       = errors.New("class is full")
	ErrAlreadyBooked   = errors.New("user already has a booking for this class")
	ErrDuplicateType   = errors.New("user already has a booking of this type on the same day")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotOwner        = errors.New("can only cancel own bookings")
)

// Reminders abstracts the reminder queue; its failures never affect the
// booking outcome.
type Reminders interface {
	ScheduleClassReminders(ctx context.Context, r notification.ClassReminder) error
	CancelReminders(ctx context.Context, bookingID int) error
}

// SubscriptionVisits is the slice of the subscription domain booking needs:
// finding an active subscription and consuming a visit from it.
type SubscriptionVisits interface {
	GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*subscription.Subscription, error)
	IncrementVisits(ctx context.Context, subID int) error
}

type Service interface {
	BookClass(ctx context.Context, userID, classID int) (*BookResult, error)
	CancelBooking(ctx context.Context, userID, bookingID int) error
	GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error)
	GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
	GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error)
	GetBookingStatsByGym(ctx context.Context, from, to time.Time) ([]GymStat, error)
}

type service struct {
	repo       Repository
	classRepo  class.Repository
	gymService gym.Service
	userRepo   user.Repository
	subs       SubscriptionVisits
	reminders  Reminders
	inflight   singleflight.Group
	now        func() time.Time
}

func NewService(
	repo Repository,
	classRepo class.Repository,
	gymService gym.Service,
	userRepo user.Repository,
	subs SubscriptionVisits,
	reminders Reminders,
) Service {
	return &service{
		repo:       repo,
		classRepo:  classRepo,
		gymService: gymService,
		userRepo:   userRepo,
		subs:       subs,
		reminders:  reminders,
		now:        time.Now,
	}
}

// BookClass books a class for the user. Eligibility is re-checked in full at
// action time; concurrent duplicate requests for the same (user, class) pair
// are collapsed into one, so a double-tap yields a single booking.
func (s *service) BookClass(ctx context.Context, userID, classID int) (*BookResult, error) {
	key := fmt.Sprintf("book:%d:%d", userID, classID)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.bookClass(ctx, userID, classID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*BookResult), nil
}

func (s *service) bookClass(ctx context.Context, userID, classID int) (*BookResult, error) {
	cls, err := s.classRepo.GetClassByID(ctx, classID)
	if err != nil {
		return nil, ErrClassNotFound
	}

	loc, err := s.gymService.Location(ctx, cls.GymID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !schedule.Classify(now, cls.StartsAt, cls.EndsAt).Bookable() {
		metrics.RecordBookingRejection("completed")
		return nil, ErrClassCompleted
	}

	hasBooking, err := s.repo.UserHasBookingForClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}
	if hasBooking {
		metrics.RecordBookingRejection("already_booked")
		return nil, ErrAlreadyBooked
	}

	bookedCount, err := s.repo.CountActiveBookingsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if bookedCount >= cls.Capacity {
		metrics.RecordBookingRejection("full")
		return nil, ErrClassFull
	}

	dup, err := s.hasSameTypeSameDay(ctx, userID, cls, loc)
	if err != nil {
		return nil, err
	}
	if dup {
		metrics.RecordBookingRejection("duplicate_type")
		return nil, ErrDuplicateType
	}

	booking, err := s.repo.CreateBooking(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	s.consumeSubscriptionVisit(ctx, userID, cls.GymID)
	s.scheduleReminders(ctx, booking, cls)
	metrics.RecordBooking("booked")

	return &BookResult{
		Booking: booking,
		Session: s.postBookingView(cls, bookedCount+1, now),
	}, nil
}

// hasSameTypeSameDay applies the one-booking-per-type-per-day rule against
// the user's active bookings on the class's local calendar date.
func (s *service) hasSameTypeSameDay(ctx context.Context, userID int, cls *class.Class, loc *time.Location) (bool, error) {
	dayStart := schedule.DayStart(cls.StartsAt, 0, loc)
	booked, err := s.repo.GetUserBookedClasses(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return false, err
	}

	target := snapshotOf(cls, 0)
	target.CanBook = true

	others := make([]schedule.Session, 0, len(booked))
	for _, b := range booked {
		others = append(others, schedule.Session{
			ID:       b.ClassID,
			Title:    b.Title,
			Type:     b.Type,
			StartsAt: b.StartsAt,
			IsBooked: true,
		})
	}

	return !schedule.CanBook(target, others, loc), nil
}

// consumeSubscriptionVisit deducts a visit when the user holds an active
// limited subscription. The booking stands even if this fails.
func (s *service) consumeSubscriptionVisit(ctx context.Context, userID, gymID int) {
	if s.subs == nil {
		return
	}

	sub, err := s.subs.GetActiveForUserAndGym(ctx, userID, gymID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Errorf("Subscription lookup failed for user %d: %v", userID, err)
		}
		return
	}

	if sub.VisitsLimit == nil || !sub.HasVisitsLeft() {
		return
	}

	if err := s.subs.IncrementVisits(ctx, sub.ID); err != nil {
		logger.Errorf("Failed to record subscription visit for user %d: %v", userID, err)
	}
}

// scheduleReminders queues T-2h and T-1h reminders. Best effort: any
// failure is logged and swallowed, never rolling back the booking.
func (s *service) scheduleReminders(ctx context.Context, booking *Booking, cls *class.Class) {
	if s.reminders == nil {
		return
	}

	u, err := s.userRepo.FindByID(ctx, booking.UserID)
	if err != nil {
		logger.Errorf("Cannot schedule reminders, user %d lookup failed: %v", booking.UserID, err)
		return
	}

	gymName := ""
	if g, err := s.gymService.GetGymByID(ctx, cls.GymID); err == nil {
		gymName = g.Name
	}

	err = s.reminders.ScheduleClassReminders(ctx, notification.ClassReminder{
		BookingID:  booking.ID,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       u.Name,
		ClassTitle: cls.Title,
		GymName:    gymName,
		ClassStart: cls.StartsAt,
	})
	if err != nil {
		logger.Errorf("Failed to schedule reminders for booking %d: %v", booking.ID, err)
	}
}

func (s *service) postBookingView(cls *class.Class, newCount int, now time.Time) class.SessionView {
	sess := snapshotOf(cls, newCount)
	sess.IsBooked = true
	sess.CanBook = false

	status := schedule.Classify(now, cls.StartsAt, cls.EndsAt)
	return class.SessionView{
		Session:     sess,
		Status:      status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),
		Bookable:    false,
	}
}

func snapshotOf(cls *class.Class, bookedCount int) schedule.Session {
	return schedule.Session{
		ID:                  cls.ID,
		Title:               cls.Title,
		Type:                cls.Type,
		Coach:               cls.Coach,
		StartsAt:            cls.StartsAt,
		EndsAt:              cls.EndsAt,
		Capacity:            cls.Capacity,
		CurrentParticipants: bookedCount,
	}
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID int) error {
	key := fmt.Sprintf("cancel:%d:%d", userID, bookingID)
	_, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return nil, s.cancelBooking(ctx, userID, bookingID)
	})
	return err
}

func (s *service) cancelBooking(ctx context.Context, userID, bookingID int) error {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	if booking.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return ErrBookingNotFound
		}
		return err
	}

	if s.reminders != nil {
		if err := s.reminders.CancelReminders(ctx, bookingID); err != nil {
			logger.Errorf("Failed to cancel reminders for booking %d: %v", bookingID, err)
		}
	}

	metrics.RecordBookingCancellation()
	return nil
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByClass(ctx, classID)
}

func (s *service) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByGym(ctx, gymID)
}

func (s *service) GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error) {
	return s.repo.GetBookingStatsByDay(ctx, from, to)
}

func (s *service) GetBookingStatsByGym(ctx context.Context, from, to time.Time) ([]GymStat, error) {
	return s.repo.GetBookingStatsByGym(ctx, from, to)
}

package booking

import (
	"context"
	"time"
)

type Repository interface {
	CreateBooking(ctx context.Context, userID, classID int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	CountActiveBookingsForClass(ctx context.Context, classID int) (int, error)
	UserHasBookingForClass(ctx context.Context, userID, classID int) (bool, error)
	GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error)
	GetUserBookedClasses(ctx context.Context, userID int, from, to time.Time) ([]BookedClass, error)
	GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
	GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error)
	GetBookingStatsByGym(ctx context.Context, from, to time.Time) ([]GymStat, error)
}

package booking

import (
	"time"

	"fitclub/internal/class"
)

type Booking struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	ClassTitle  string    `db:"class_title" json:"class_title"`
	ClassType   string    `db:"class_type" json:"class_type,omitempty"`
	ClassStart  time.Time `db:"class_start" json:"class_start"`
	ClassEnd    time.Time `db:"class_end" json:"class_end"`
	GymName     string    `db:"gym_name" json:"gym_name"`
	GymLocation string    `db:"gym_location" json:"gym_location"`
	UserName    string    `db:"user_name" json:"user_name"`
	UserEmail   string    `db:"user_email" json:"user_email"`
}

// BookedClass is the minimal slice of a user's active booking needed by the
// duplicate-type-per-day rule.
type BookedClass struct {
	ClassID  int       `db:"class_id"`
	Title    string    `db:"title"`
	Type     string    `db:"type"`
	StartsAt time.Time `db:"starts_at"`
}

// BookResult is the command/result object of a successful booking: the
// persisted booking plus the post-mutation session snapshot, so callers can
// render the new state without re-fetching.
type BookResult struct {
	Booking *Booking          `json:"booking"`
	Session class.SessionView `json:"session"`
}

type CancelBookingResponse struct {
	Message string `json:"message" example:"Booking cancelled successfully"`
}

type DayStat struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

type GymStat struct {
	GymID   int    `db:"gym_id" json:"gym_id"`
	GymName string `db:"gym_name" json:"gym_name"`
	Count   int    `db:"count" json:"count"`
}

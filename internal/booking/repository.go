package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, userID, classID int) (*Booking, error) {
	query := `
		INSERT INTO bookings (user_id, class_id, status)
		VALUES ($1, $2, 'booked')
		RETURNING id, user_id, class_id, status, created_at
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, userID, classID)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, user_id, class_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'booked'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

func (r *repository) CountActiveBookingsForClass(ctx context.Context, classID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE class_id = $1 AND status = 'booked'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, classID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) UserHasBookingForClass(ctx context.Context, userID, classID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND class_id = $2 AND status = 'booked'
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, classID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.class_id,
			b.status,
			b.created_at,
			c.title AS class_title,
			COALESCE(c.type, '') AS class_type,
			c.starts_at AS class_start,
			c.ends_at AS class_end,
			g.name AS gym_name,
			g.location AS gym_location,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		JOIN gyms g ON c.gym_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetUserBookedClasses(ctx context.Context, userID int, from, to time.Time) ([]BookedClass, error) {
	query := `
		SELECT
			b.class_id,
			c.title,
			COALESCE(c.type, '') AS type,
			c.starts_at
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.user_id = $1 AND b.status = 'booked'
		  AND c.starts_at >= $2 AND c.starts_at < $3
		ORDER BY c.starts_at ASC
	`

	var classes []BookedClass
	err := r.db.SelectContext(ctx, &classes, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *repository) GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.class_id,
			b.status,
			b.created_at,
			c.title AS class_title,
			COALESCE(c.type, '') AS class_type,
			c.starts_at AS class_start,
			c.ends_at AS class_end,
			g.name AS gym_name,
			g.location AS gym_location,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		JOIN gyms g ON c.gym_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE b.class_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, classID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.class_id,
			b.status,
			b.created_at,
			c.title AS class_title,
			COALESCE(c.type, '') AS class_type,
			c.starts_at AS class_start,
			c.ends_at AS class_end,
			g.name AS gym_name,
			g.location AS gym_location,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		JOIN gyms g ON c.gym_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE g.id = $1
		ORDER BY c.starts_at DESC, b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, gymID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingStatsByDay(ctx context.Context, from, to time.Time) ([]DayStat, error) {
	query := `
		SELECT date_trunc('day', c.starts_at) AS day, COUNT(*) AS count
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.status = 'booked' AND c.starts_at >= $1 AND c.starts_at < $2
		GROUP BY day
		ORDER BY day ASC
	`

	var stats []DayStat
	err := r.db.SelectContext(ctx, &stats, query, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) GetBookingStatsByGym(ctx context.Context, from, to time.Time) ([]GymStat, error) {
	query := `
		SELECT g.id AS gym_id, g.name AS gym_name, COUNT(*) AS count
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		JOIN gyms g ON c.gym_id = g.id
		WHERE b.status = 'booked' AND c.starts_at >= $1 AND c.starts_at < $2
		GROUP BY g.id, g.name
		ORDER BY count DESC
	`

	var stats []GymStat
	err := r.db.SelectContext(ctx, &stats, query, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

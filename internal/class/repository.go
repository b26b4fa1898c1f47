package class

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, gymID int, title, ctype, coach string, startsAt, endsAt time.Time, capacity int) (*Class, error) {
	query := `
		INSERT INTO classes (gym_id, title, type, coach, starts_at, ends_at, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, gym_id, title, COALESCE(type, '') AS type, COALESCE(coach, '') AS coach, starts_at, ends_at, capacity, created_at
	`

	var class Class
	err := r.db.GetContext(ctx, &class, query, gymID, title, nullable(ctype), nullable(coach), startsAt, endsAt, capacity)
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (r *repository) GetClassByID(ctx context.Context, id int) (*Class, error) {
	query := `
		SELECT id, gym_id, title, COALESCE(type, '') AS type, COALESCE(coach, '') AS coach, starts_at, ends_at, capacity, created_at
		FROM classes
		WHERE id = $1
	`

	var class Class
	err := r.db.GetContext(ctx, &class, query, id)
	if err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *repository) GetClassesByGym(ctx context.Context, gymID int, from, to time.Time) ([]Class, error) {
	query := `
		SELECT id, gym_id, title, COALESCE(type, '') AS type, COALESCE(coach, '') AS coach, starts_at, ends_at, capacity, created_at
		FROM classes
		WHERE gym_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at ASC
	`

	var classes []Class
	err := r.db.SelectContext(ctx, &classes, query, gymID, from, to)
	if err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *repository) CountActiveBookings(ctx context.Context, classID int) (int, error) {
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

func (r *repository) CountActiveBookingsForClasses(ctx context.Context, classIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(classIDs))
	if len(classIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT class_id, COUNT(*) AS cnt
		FROM bookings
		WHERE class_id IN (?) AND status = 'booked'
		GROUP BY class_id
	`, classIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows := []struct {
		ClassID int `db:"class_id"`
		Count   int `db:"cnt"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ClassID] = row.Count
	}
	return counts, nil
}

func (r *repository) GetParticipants(ctx context.Context, classID int) ([]Participant, error) {
	query := `
		SELECT b.user_id, u.name
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		WHERE b.class_id = $1 AND b.status = 'booked'
		ORDER BY b.created_at ASC
	`

	var participants []Participant
	err := r.db.SelectContext(ctx, &participants, query, classID)
	if err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *repository) GetUserBookedClassIDs(ctx context.Context, userID int, from, to time.Time) (map[int]bool, error) {
	query := `
		SELECT b.class_id
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.user_id = $1 AND b.status = 'booked'
		  AND c.starts_at >= $2 AND c.starts_at < $3
	`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, userID, from, to); err != nil {
		return nil, err
	}

	booked := make(map[int]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}

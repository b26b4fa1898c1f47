package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func TestCreateAndGetBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status", "created_at"}).
			AddRow(10, 1, 2, "booked", now))

	b, err := repo.CreateBooking(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 10, b.ID)
	require.Equal(t, "booked", b.Status)

	mock.ExpectQuery("SELECT id, user_id, class_id, status, created_at").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status", "created_at"}).
			AddRow(10, 1, 2, "booked", now))

	got, err := repo.GetBookingByID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 10, got.ID)
	require.Equal(t, 2, got.ClassID)
}

func TestCancelBookingRows(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()

	// success case
	mock.ExpectExec("UPDATE bookings").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CancelBooking(ctx, 5)
	require.NoError(t, err)

	// zero rows affected: already cancelled or missing
	mock.ExpectExec("UPDATE bookings").
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.CancelBooking(ctx, 6)
	require.Error(t, err)
	require.Equal(t, ErrBookingNotFoundOrAlreadyCancelled, err)
}

func TestCountsAndExists(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	cnt, err := repo.CountActiveBookingsForClass(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 2, cnt)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1, 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.UserHasBookingForClass(ctx, 1, 3)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetUserBookedClassesWindow(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"class_id", "title", "type", "starts_at"}).
		AddRow(7, "Morning Yoga", "Йога", from.Add(8*time.Hour)).
		AddRow(9, "Boxing", "Бокс", from.Add(18*time.Hour))

	mock.ExpectQuery("FROM bookings b").
		WithArgs(1, from, to).
		WillReturnRows(rows)

	classes, err := repo.GetUserBookedClasses(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.Equal(t, "Йога", classes[0].Type)
	require.Equal(t, 9, classes[1].ClassID)
}

func TestGetUserBookingsDetails(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "class_id", "status", "created_at",
		"class_title", "class_type", "class_start", "class_end",
		"gym_name", "gym_location", "user_name", "user_email",
	}).
		AddRow(1, 1, 10, "booked", now, "Morning Yoga", "Йога", now.Add(time.Hour), now.Add(2*time.Hour), "Downtown", "Main St 1", "Aida", "aida@example.com").
		AddRow(2, 1, 11, "cancelled", now.Add(-time.Hour), "Boxing", "Бокс", now.Add(3*time.Hour), now.Add(4*time.Hour), "Downtown", "Main St 1", "Aida", "aida@example.com")

	mock.ExpectQuery("JOIN classes c").
		WithArgs(1).
		WillReturnRows(rows)

	list, err := repo.GetUserBookings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Morning Yoga", list[0].ClassTitle)
	require.Equal(t, "cancelled", list[1].Status)
}

func TestBookingStats(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	ctx := context.Background()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("date_trunc").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).
			AddRow(from, 4).
			AddRow(from.AddDate(0, 0, 1), 7))

	days, err := repo.GetBookingStatsByDay(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, 7, days[1].Count)

	mock.ExpectQuery("GROUP BY g.id").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"gym_id", "gym_name", "count"}).
			AddRow(1, "Downtown", 11))

	gyms, err := repo.GetBookingStatsByGym(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
	require.Equal(t, "Downtown", gyms[0].GymName)
}

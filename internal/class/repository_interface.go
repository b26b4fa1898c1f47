package class

import (
	"context"
	"time"
)

type Repository interface {
	CreateClass(ctx context.Context, gymID int, title, ctype, coach string, startsAt, endsAt time.Time, capacity int) (*Class, error)
	GetClassByID(ctx context.Context, id int) (*Class, error)
	GetClassesByGym(ctx context.Context, gymID int, from, to time.Time) ([]Class, error)
	CountActiveBookings(ctx context.Context, classID int) (int, error)
	CountActiveBookingsForClasses(ctx context.Context, classIDs []int) (map[int]int, error)
	GetParticipants(ctx context.Context, classID int) ([]Participant, error)
	GetUserBookedClassIDs(ctx context.Context, userID int, from, to time.Time) (map[int]bool, error)
}

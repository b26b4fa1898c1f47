package class

import (
	"time"

	"fitclub/internal/schedule"
)

type Class struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	Title     string    `db:"title" json:"title"`
	Type      string    `db:"type" json:"type,omitempty"`
	Coach     string    `db:"coach" json:"coach,omitempty"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Participant struct {
	UserID int    `db:"user_id" json:"id"`
	Name   string `db:"name" json:"name"`
}

type CreateClassRequest struct {
	Title    string `json:"title" binding:"required"`
	Type     string `json:"type,omitempty"`
	Coach    string `json:"coach,omitempty"`
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// SessionView is one schedule entry: the session snapshot plus its computed
// status and final bookability at the time the view was assembled.
type SessionView struct {
	schedule.Session
	Status      schedule.Status `json:"status"`
	StatusLabel string          `json:"status_label"`
	StatusColor string          `json:"status_color"`
	Bookable    bool            `json:"bookable"`
}

type GroupView struct {
	Type     string        `json:"type"`
	Sessions []SessionView `json:"sessions"`
}

// DaySchedule is the day-bucketed, type-grouped engine output for one gym
// and one day offset. An empty Groups slice means "no classes this day",
// which is distinct from a load error.
type DaySchedule struct {
	GymID     int         `json:"gym_id"`
	DayOffset int         `json:"day_offset"`
	Date      string      `json:"date"`
	Timezone  string      `json:"timezone"`
	Groups    []GroupView `json:"groups"`
}

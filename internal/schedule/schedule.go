// Package schedule holds the pure scheduling and booking-eligibility logic:
// bucketing class sessions by local calendar day, classifying their temporal
// status against a reference time, and deciding whether a session can be
// booked. Nothing here touches the database or the clock; callers pass "now"
// explicitly and results are only as fresh as the last call.
package schedule

import (
	"fmt"
	"time"
)

// MaxDayOffset bounds the rolling schedule window: today plus six days.
const MaxDayOffset = 6

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusAvailable Status = "available"
	StatusUpcoming  Status = "upcoming"
)

// Bookable reports whether the status alone permits booking. Only a
// completed session is blocked on status grounds.
func (s Status) Bookable() bool {
	return s != StatusCompleted
}

func (s Status) Label() string {
	switch s {
	case StatusOngoing:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusAvailable:
		return "Available"
	case StatusUpcoming:
		return "Upcoming"
	}
	return string(s)
}

// Color returns the display color token for a status.
func (s Status) Color() string {
	switch s {
	case StatusOngoing:
		return "green"
	case StatusCompleted:
		return "gray"
	case StatusAvailable:
		return "blue"
	case StatusUpcoming:
		return "orange"
	}
	return "gray"
}

type Participant struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is a point-in-time snapshot of one scheduled class occurrence,
// carrying everything the eligibility rules need.
type Session struct {
	ID                  int           `json:"id"`
	Title               string        `json:"title"`
	Type                string        `json:"type,omitempty"`
	Coach               string        `json:"coach,omitempty"`
	StartsAt            time.Time     `json:"starts_at"`
	EndsAt              time.Time     `json:"ends_at"`
	Capacity            int           `json:"capacity"`
	CurrentParticipants int           `json:"current_participants"`
	IsBooked            bool          `json:"is_booked"`
	CanBook             bool          `json:"can_book"`
	Participants        []Participant `json:"participants,omitempty"`
}

// TypeKey returns the grouping key for the session: its type, or the title
// when no type is set.
func (s Session) TypeKey() string {
	if s.Type != "" {
		return s.Type
	}
	return s.Title
}

// Group is one section of a day's schedule: all sessions sharing a type key,
// in the order they were received.
type Group struct {
	Key      string    `json:"type"`
	Sessions []Session `json:"sessions"`
}

// Classify derives the temporal status of a session from the reference time.
// The session interval is half-open: a session is ongoing from its start up
// to, but not including, its end, and completed from the end onward. A future
// session starting within 24 hours is available, later than that upcoming.
//
// Pure and stateless: the same (now, startsAt, endsAt) always yields the same
// status, and a session's status can change between calls without any
// explicit transition event.
func Classify(now, startsAt, endsAt time.Time) Status {
	switch {
	case !now.Before(startsAt) && now.Before(endsAt):
		return StatusOngoing
	case !now.Before(endsAt):
		return StatusCompleted
	}

	// Session is strictly in the future.
	if startsAt.Sub(now) <= 24*time.Hour {
		return StatusAvailable
	}
	return StatusUpcoming
}

// DateKey formats the local calendar date of t in loc as YYYY-MM-DD. The
// date is taken from local components, not from the UTC instant, so sessions
// near a timezone boundary land on the day a member actually sees.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// DayStart returns local midnight of today-plus-offset in loc.
func DayStart(now time.Time, dayOffset int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+dayOffset, 0, 0, 0, 0, loc)
}

// ForDay filters sessions to those starting on the local calendar date
// today-plus-dayOffset. Order is preserved as received. An out-of-window
// offset yields nil; the rolling window is today through today+6.
func ForDay(sessions []Session, dayOffset int, now time.Time, loc *time.Location) []Session {
	if dayOffset < 0 || dayOffset > MaxDayOffset {
		return nil
	}

	want := DateKey(DayStart(now, dayOffset, loc), loc)

	var out []Session
	for _, s := range sessions {
		if DateKey(s.StartsAt, loc) == want {
			out = append(out, s)
		}
	}
	return out
}

// GroupByType partitions sessions into groups keyed by TypeKey. Group order
// follows the first appearance of each key; sessions keep their original
// order within a group.
func GroupByType(sessions []Session) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, s := range sessions {
		key := s.TypeKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Sessions = append(groups[i].Sessions, s)
	}
	return groups
}

// CanBook decides whether the session can be booked right now, given every
// session the user can see (used for the duplicate check). The rules, in
// order:
//
//   - the session's intrinsic CanBook flag must be set (not already booked,
//     not server-marked unbookable);
//   - there must be seats left;
//   - the user must not already hold a booking for a different session of
//     the same type on the same local calendar date (one booking per
//     activity type per day).
//
// Callers must re-evaluate this at the moment of the booking action, not
// cache it: capacity and duplicate state can change between renders.
func CanBook(session Session, userSessions []Session, loc *time.Location) bool {
	if !session.CanBook {
		return false
	}

	if session.CurrentParticipants >= session.Capacity {
		return false
	}

	day := DateKey(session.StartsAt, loc)
	key := session.TypeKey()
	for _, other := range userSessions {
		if other.ID == session.ID || !other.IsBooked {
			continue
		}
		if other.TypeKey() == key && DateKey(other.StartsAt, loc) == day {
			return false
		}
	}

	return true
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"
)

const (
	reminderQueue     = "reminders"
	cancelledSet      = "reminders:cancelled"
	cancelledSetTTL   = 14 * 24 * time.Hour
	deliveryBatchSize = 100
)

// Reminder offsets before class start. Both are scheduled per booking;
// offsets already in the past at scheduling time are skipped.
var ReminderOffsets = []time.Duration{2 * time.Hour, time.Hour}

// ClassReminder is one queued reminder job.
type ClassReminder struct {
	BookingID  int       `json:"booking_id"`
	UserID     int       `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ClassTitle string    `json:"class_title"`
	GymName    string    `json:"gym_name"`
	ClassStart time.Time `json:"class_start"`
	RemindAt   time.Time `json:"remind_at"`
}

// Sender delivers a single reminder to its recipient.
type Sender interface {
	Send(ctx context.Context, to, name, subject, body string) error
}

// Service schedules class reminders in a Redis sorted set scored by
// delivery time and drains due entries from a polling worker. Scheduling is
// always best-effort for callers: a failure here never affects the booking.
type Service struct {
	rdb      *redis.Client
	sender   Sender
	interval time.Duration
	now      func() time.Time
}

func New(rdb *redis.Client, sender Sender, pollInterval time.Duration) *Service {
	return &Service{
		rdb:      rdb,
		sender:   sender,
		interval: pollInterval,
		now:      time.Now,
	}
}

// ScheduleClassReminders queues reminders at the standard offsets before the
// class starts. Offsets whose delivery time has already passed are dropped.
func (s *Service) ScheduleClassReminders(ctx context.Context, r ClassReminder) error {
	now := s.now()

	for _, offset := range ReminderOffsets {
		remindAt := r.ClassStart.Add(-offset)
		if !remindAt.After(now) {
			continue
		}

		job := r
		job.RemindAt = remindAt

		data, err := json.Marshal(job)
		if err != nil {
			return err
		}

		if err := s.rdb.ZAdd(ctx, reminderQueue, redis.Z{
			Score:  float64(remindAt.Unix()),
			Member: data,
		}).Err(); err != nil {
			return err
		}

		metrics.RecordReminderScheduled()
	}

	return nil
}

// CancelReminders tombstones a booking so its pending reminders are dropped
// at delivery time instead of being searched out of the sorted set.
func (s *Service) CancelReminders(ctx context.Context, bookingID int) error {
	key := fmt.Sprintf("%d", bookingID)
	if err := s.rdb.SAdd(ctx, cancelledSet, key).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, cancelledSet, cancelledSetTTL).Err()
}

// Start runs the delivery loop until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Reminder worker started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			s.deliverDue(ctx)
		}
	}
}

func (s *Service) deliverDue(ctx context.Context) {
	now := s.now()

	entries, err := s.rdb.ZRangeByScore(ctx, reminderQueue, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: deliveryBatchSize,
	}).Result()
	if err != nil {
		logger.Errorf("Failed to read due reminders: %v", err)
		return
	}

	for _, entry := range entries {
		// Remove first so a crash mid-send drops the reminder rather than
		// duplicating it.
		if err := s.rdb.ZRem(ctx, reminderQueue, entry).Err(); err != nil {
			logger.Errorf("Failed to dequeue reminder: %v", err)
			continue
		}

		var job ClassReminder
		if err := json.Unmarshal([]byte(entry), &job); err != nil {
			logger.Errorf("Bad reminder data: %v", err)
			metrics.RecordReminderDelivered("corrupt")
			continue
		}

		cancelled, err := s.rdb.SIsMember(ctx, cancelledSet, fmt.Sprintf("%d", job.BookingID)).Result()
		if err == nil && cancelled {
			metrics.RecordReminderDelivered("cancelled")
			continue
		}

		if err := s.deliver(ctx, job); err != nil {
			logger.Errorf("Failed to deliver reminder for booking %d: %v", job.BookingID, err)
			metrics.RecordReminderDelivered("failed")
			continue
		}

		metrics.RecordReminderDelivered("sent")
	}
}

func (s *Service) deliver(ctx context.Context, job ClassReminder) error {
	untilStart := job.ClassStart.Sub(s.now()).Round(time.Minute)

	subject := "Reminder: " + job.ClassTitle
	body := fmt.Sprintf(`Hi %s,

Your class is coming up in about %s:

Class: %s
Gym: %s
Starts: %s

See you there!

- FitClub Team`, job.Name, untilStart, job.ClassTitle, job.GymName, job.ClassStart.Format("Jan 2, 2006 at 3:04 PM"))

	return s.sender.Send(ctx, job.Email, job.Name, subject, body)
}

// PendingCount reports how many reminders are waiting in the queue.
func (s *Service) PendingCount(ctx context.Context) int64 {
	n, _ := s.rdb.ZCard(ctx, reminderQueue).Result()
	return n
}

func (s *Service) Close() error {
	return s.rdb.Close()
}

// SMTPSender delivers reminders over plain SMTP.
type SMTPSender struct {
	host     string
	port     string
	user     string
	pass     string
	from     string
	fromName string
}

func NewSMTPSender(host, port, user, pass, from, fromName string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(_ context.Context, to, _, subject, body string) error {
	message := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.fromName, s.from, to, subject, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	addr := s.host + ":" + s.port
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
}

// LogSender is a no-op Sender for deployments without SMTP configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, _, subject, _ string) error {
	logger.Info("Reminder delivered to log", "to", to, "subject", subject)
	return nil
}

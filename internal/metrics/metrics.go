package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_total",
			Help: "Total number of class bookings",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	BookingRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_booking_rejections_total",
			Help: "Bookings rejected by eligibility checks",
		},
		[]string{"reason"},
	)

	RemindersScheduledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_reminders_scheduled_total",
			Help: "Total number of class reminders scheduled",
		},
	)

	RemindersDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_reminders_delivered_total",
			Help: "Total number of class reminders delivered",
		},
		[]string{"status"},
	)

	GymCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_gym_cache_hits_total",
			Help: "Gym detail cache lookups",
		},
		[]string{"result"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordBookingRejection(reason string) {
	BookingRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordReminderScheduled() {
	RemindersScheduledTotal.Inc()
}

func RecordReminderDelivered(status string) {
	RemindersDeliveredTotal.WithLabelValues(status).Inc()
}

func RecordGymCacheLookup(result string) {
	GymCacheHitsTotal.WithLabelValues(result).Inc()
}

func RecordSubscription(subType string) {
	SubscriptionsCreatedTotal.WithLabelValues(subType).Inc()
}

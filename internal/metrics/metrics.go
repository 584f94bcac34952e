package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	bookingsRescheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "bookings_rescheduled_total",
			Help:      "Bookings rescheduled.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		},
	)

	slotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "slot_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		},
	)

	reviewsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "reviews_submitted_total",
			Help:      "Reviews created or updated.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingsRescheduled,
			bookingsCancelled,
			slotConflicts,
			reviewsSubmitted,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncBookingCreated()     { bookingsCreated.Inc() }
func IncBookingRescheduled() { bookingsRescheduled.Inc() }
func IncBookingCancelled()   { bookingsCancelled.Inc() }
func IncSlotConflict()       { slotConflicts.Inc() }
func IncReviewSubmitted()    { reviewsSubmitted.Inc() }

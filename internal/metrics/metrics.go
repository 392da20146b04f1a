// Package metrics exposes Prometheus instruments for the booking service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rangbhumi"

// Booking outcomes used as the "outcome" label.
const (
	OutcomeBooked   = "booked"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeHalted   = "halted"
	OutcomeError    = "error"
)

var (
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_attempts_total",
		Help:      "Booking transactions by outcome.",
	}, []string{"outcome"})

	SeatsBooked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seats_booked_total",
		Help:      "Seats committed as booked, by show.",
	}, []string{"show"})

	BookingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "booking_transaction_seconds",
		Help:      "Time spent inside the seat map critical section.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	TicketRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_renders_total",
		Help:      "Ticket documents rendered, by result.",
	}, []string{"result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
